package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrDuplicateStudent = errors.New("a student with this register number already exists")
	ErrInvalidStudent   = errors.New("invalid student")
)

type Student struct {
	RegNo  string `json:"reg_no"`
	Name   string `json:"name"`
	Grade  string `json:"grade"` // canonical "Class N"
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

// StudentInput is the raw, unvalidated form of a Student.
type StudentInput struct {
	RegNo  string `json:"reg_no"`
	Name   string `json:"name"`
	Grade  string `json:"grade"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

// Provider resolves students for the assessment core.
type Provider interface {
	Resolve(ctx context.Context, id string) (Student, error)
}

// Store is a Provider that can also be written to and listed.
type Store interface {
	Provider
	Add(ctx context.Context, s Student) error
	// Update replaces the stored record with the same register number.
	Update(ctx context.Context, s Student) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]Student, error)
	ListByClass(ctx context.Context, grade string) ([]Student, error)
}

// NewStudent validates raw input and returns a normalized Student.
func NewStudent(in StudentInput) (Student, error) {
	name := strings.TrimSpace(in.Name)
	if !ValidName(name) {
		return Student{}, fmt.Errorf("%w: name must be letters and spaces only", ErrInvalidStudent)
	}
	reg := strings.TrimSpace(in.RegNo)
	if !alphanumeric(reg) {
		return Student{}, fmt.Errorf("%w: register number must be alphanumeric", ErrInvalidStudent)
	}
	grade, err := NormalizeClass(in.Grade)
	if err != nil {
		return Student{}, err
	}
	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil || age < 3 || age > 120 {
		return Student{}, fmt.Errorf("%w: age must be numeric between 3 and 120", ErrInvalidStudent)
	}
	gender := strings.ToLower(strings.TrimSpace(in.Gender))
	switch gender {
	case "male", "female", "other":
	default:
		return Student{}, fmt.Errorf("%w: gender must be Male, Female or Other", ErrInvalidStudent)
	}
	email := strings.TrimSpace(in.Email)
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") || len(email) <= 5 {
		return Student{}, fmt.Errorf("%w: email", ErrInvalidStudent)
	}
	phone := strings.TrimSpace(in.Phone)
	if n := countDigits(phone); n < 7 || n > 15 {
		return Student{}, fmt.Errorf("%w: phone must have 7 to 15 digits", ErrInvalidStudent)
	}
	return Student{
		RegNo:  reg,
		Name:   name,
		Grade:  grade,
		Age:    age,
		Gender: strings.ToUpper(gender[:1]) + gender[1:],
		Email:  email,
		Phone:  phone,
	}, nil
}

// StudentPatch carries the fields to change; nil fields are kept. The
// register number cannot be changed.
type StudentPatch struct {
	Name   *string `json:"name,omitempty"`
	Grade  *string `json:"grade,omitempty"`
	Age    *string `json:"age,omitempty"`
	Gender *string `json:"gender,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
}

// Apply returns st with the patch applied, validated the same way as NewStudent.
func (p StudentPatch) Apply(st Student) (Student, error) {
	in := StudentInput{
		RegNo:  st.RegNo,
		Name:   st.Name,
		Grade:  st.Grade,
		Age:    strconv.Itoa(st.Age),
		Gender: st.Gender,
		Email:  st.Email,
		Phone:  st.Phone,
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&in.Name, p.Name)
	set(&in.Grade, p.Grade)
	set(&in.Age, p.Age)
	set(&in.Gender, p.Gender)
	set(&in.Email, p.Email)
	set(&in.Phone, p.Phone)
	return NewStudent(in)
}

// Search returns the students whose name or register number contains kw,
// ignoring case, in list order.
func Search(list []Student, kw string) []Student {
	kw = strings.ToLower(strings.TrimSpace(kw))
	out := []Student{}
	if kw == "" {
		return out
	}
	for _, s := range list {
		if strings.Contains(strings.ToLower(s.Name), kw) || strings.Contains(strings.ToLower(s.RegNo), kw) {
			out = append(out, s)
		}
	}
	return out
}

type ClassCount struct {
	Grade    string `json:"grade"`
	Students int    `json:"students"`
}

// CountByClass counts students per class, ordered by class number. Classes
// without students are left out.
func CountByClass(list []Student) []ClassCount {
	idx := map[string]int{}
	out := []ClassCount{}
	for _, s := range list {
		i, ok := idx[s.Grade]
		if !ok {
			i = len(out)
			idx[s.Grade] = i
			out = append(out, ClassCount{Grade: s.Grade})
		}
		out[i].Students++
	}
	sort.Slice(out, func(i, j int) bool { return classNumber(out[i].Grade) < classNumber(out[j].Grade) })
	return out
}

// SortStudents orders by class number, then register number.
func SortStudents(list []Student) {
	sort.SliceStable(list, func(i, j int) bool {
		ci, cj := classNumber(list[i].Grade), classNumber(list[j].Grade)
		if ci != cj {
			return ci < cj
		}
		return list[i].RegNo < list[j].RegNo
	})
}

// ValidName reports whether s is letters and spaces with at least one letter.
func ValidName(s string) bool {
	if strings.ReplaceAll(s, " ", "") == "" {
		return false
	}
	for _, r := range s {
		if r != ' ' && !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func alphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func key(id string) string { return strings.ToLower(strings.TrimSpace(id)) }
