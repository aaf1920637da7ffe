// Package staff keeps the teacher directory and subject assignments.
package staff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mind-engage/mindengage-school/internal/roster"
)

var (
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrInvalidTeacher  = errors.New("invalid teacher")
	ErrInvalidSubject  = errors.New("invalid subject")
	ErrAlreadyAssigned = errors.New("subject already assigned")
)

type Teacher struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Experience     int      `json:"experience"` // years
	Qualifications string   `json:"qualifications"`
	Subjects       []string `json:"subjects"`
}

func (t Teacher) clone() Teacher {
	t.Subjects = append([]string{}, t.Subjects...)
	return t
}

type TeacherInput struct {
	Name           string `json:"name"`
	Experience     string `json:"experience"`
	Qualifications string `json:"qualifications"`
}

// TeacherPatch changes the non-nil fields. Subjects change only through Assign.
type TeacherPatch struct {
	Name           *string `json:"name,omitempty"`
	Experience     *string `json:"experience,omitempty"`
	Qualifications *string `json:"qualifications,omitempty"`
}

// SubjectTeachers lists who teaches one catalog subject.
type SubjectTeachers struct {
	Subject  string       `json:"subject"`
	Teachers []TeacherRef `json:"teachers"`
}

type TeacherRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Directory allocates T001-style ids from its own counter; ids of removed
// teachers are not reused.
type Directory struct {
	mu    sync.RWMutex
	seq   int
	order []string
	byID  map[string]*Teacher
}

func NewDirectory() *Directory {
	return &Directory{seq: 1, byID: map[string]*Teacher{}}
}

func (d *Directory) Add(in TeacherInput) (Teacher, error) {
	name := strings.TrimSpace(in.Name)
	if !roster.ValidName(name) {
		return Teacher{}, fmt.Errorf("%w: name must be letters and spaces only", ErrInvalidTeacher)
	}
	exp, err := parseExperience(in.Experience)
	if err != nil {
		return Teacher{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	t := &Teacher{
		ID:             fmt.Sprintf("T%03d", d.seq),
		Name:           name,
		Experience:     exp,
		Qualifications: strings.TrimSpace(in.Qualifications),
		Subjects:       []string{},
	}
	d.seq++
	d.byID[t.ID] = t
	d.order = append(d.order, t.ID)
	return t.clone(), nil
}

func (d *Directory) Get(id string) (Teacher, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.byID[idKey(id)]
	if !ok {
		return Teacher{}, ErrTeacherNotFound
	}
	return t.clone(), nil
}

func (d *Directory) List() []Teacher {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Teacher, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id].clone())
	}
	return out
}

// Update validates the whole patch before changing anything.
func (d *Directory) Update(id string, p TeacherPatch) (Teacher, error) {
	var name string
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if !roster.ValidName(name) {
			return Teacher{}, fmt.Errorf("%w: name must be letters and spaces only", ErrInvalidTeacher)
		}
	}
	var exp int
	if p.Experience != nil {
		var err error
		if exp, err = parseExperience(*p.Experience); err != nil {
			return Teacher{}, err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.byID[idKey(id)]
	if !ok {
		return Teacher{}, ErrTeacherNotFound
	}
	if p.Name != nil {
		t.Name = name
	}
	if p.Experience != nil {
		t.Experience = exp
	}
	if p.Qualifications != nil {
		t.Qualifications = strings.TrimSpace(*p.Qualifications)
	}
	return t.clone(), nil
}

func (d *Directory) Remove(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := idKey(id)
	if _, ok := d.byID[k]; !ok {
		return ErrTeacherNotFound
	}
	delete(d.byID, k)
	for i, o := range d.order {
		if o == k {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// Assign adds a catalog subject to the teacher's list.
func (d *Directory) Assign(id, subject string) (Teacher, error) {
	subj, ok := roster.CatalogSubject(subject)
	if !ok {
		return Teacher{}, fmt.Errorf("%w %q", ErrInvalidSubject, strings.TrimSpace(subject))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.byID[idKey(id)]
	if !ok {
		return Teacher{}, ErrTeacherNotFound
	}
	for _, s := range t.Subjects {
		if s == subj {
			return Teacher{}, ErrAlreadyAssigned
		}
	}
	t.Subjects = append(t.Subjects, subj)
	return t.clone(), nil
}

// BySubject lists every catalog subject, in catalog order, with the
// teachers assigned to it. Unassigned subjects have an empty list.
func (d *Directory) BySubject() []SubjectTeachers {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]SubjectTeachers, 0, len(roster.Subjects))
	for _, subj := range roster.Subjects {
		st := SubjectTeachers{Subject: subj, Teachers: []TeacherRef{}}
		for _, id := range d.order {
			t := d.byID[id]
			for _, s := range t.Subjects {
				if s == subj {
					st.Teachers = append(st.Teachers, TeacherRef{ID: t.ID, Name: t.Name})
					break
				}
			}
		}
		out = append(out, st)
	}
	return out
}

func parseExperience(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.IndexFunc(raw, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, fmt.Errorf("%w: experience must be numeric", ErrInvalidTeacher)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: experience must be numeric", ErrInvalidTeacher)
	}
	return n, nil
}

func idKey(id string) string { return strings.ToUpper(strings.TrimSpace(id)) }
