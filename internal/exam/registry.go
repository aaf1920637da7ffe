package exam

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mind-engage/mindengage-school/internal/roster"
)

// NewExam is the raw input to CreateExam.
type NewExam struct {
	Name  string
	Grade string
	// Subjects is either a single "all" or an explicit list from the catalog.
	Subjects []string
	// Date is optional and stored as given; empty means today.
	Date string
}

// Registry owns exam definitions and the id sequence.
type Registry struct {
	mu    sync.RWMutex
	seq   int
	exams []Exam
	byID  map[string]int
	now   func() time.Time
}

func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{seq: 1, byID: map[string]int{}, now: now}
}

func (r *Registry) CreateExam(in NewExam) (Exam, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Exam{}, ErrInvalidName
	}
	grade, err := roster.NormalizeClass(in.Grade)
	if err != nil {
		return Exam{}, err
	}
	subjects, err := resolveSubjects(in.Subjects)
	if err != nil {
		return Exam{}, err
	}
	now := r.now()
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = now.Format("2006-01-02")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e := Exam{
		ID:        fmt.Sprintf("E%03d", r.seq),
		Name:      name,
		Grade:     grade,
		Subjects:  subjects,
		Date:      date,
		CreatedAt: now.Unix(),
	}
	r.seq++
	r.byID[e.ID] = len(r.exams)
	r.exams = append(r.exams, e)
	return e.clone(), nil
}

// ListExams returns every exam in creation order.
func (r *Registry) ListExams() []Exam {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Exam, len(r.exams))
	for i, e := range r.exams {
		out[i] = e.clone()
	}
	return out
}

// GetExam looks an exam up by id, ignoring case and surrounding space.
func (r *Registry) GetExam(id string) (Exam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	return r.exams[i].clone(), nil
}

// ParseSubjects splits a comma-separated subject list, dropping blanks.
func ParseSubjects(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func resolveSubjects(in []string) ([]string, error) {
	if len(in) == 1 && strings.EqualFold(strings.TrimSpace(in[0]), "all") {
		return append([]string(nil), roster.Subjects...), nil
	}
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, raw := range in {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		s, ok := roster.CatalogSubject(raw)
		if !ok {
			return nil, &SubjectError{Subject: raw}
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, &SubjectError{Reason: "at least one subject required"}
	}
	return out, nil
}
