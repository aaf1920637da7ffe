package exam

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-school/internal/roster"
)

func fixedClock() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }

func TestCreateExam_AssignsSequentialIDs(t *testing.T) {
	r := NewRegistry(fixedClock)
	a, err := r.CreateExam(NewExam{Name: "Midterm", Grade: "7", Subjects: []string{"Maths", "Science"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := r.CreateExam(NewExam{Name: "Final", Grade: "Class 7", Subjects: []string{"all"}, Date: "2024-04-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != "E001" || b.ID != "E002" {
		t.Fatalf("expected E001/E002, got %s/%s", a.ID, b.ID)
	}
	if a.Grade != "Class 7" {
		t.Fatalf("expected normalized grade, got %q", a.Grade)
	}
	if a.Date != "2024-03-15" {
		t.Fatalf("expected default date from clock, got %q", a.Date)
	}
	if b.Date != "2024-04-01" {
		t.Fatalf("expected given date, got %q", b.Date)
	}
	if len(b.Subjects) != len(roster.Subjects) {
		t.Fatalf("expected full catalog for 'all', got %v", b.Subjects)
	}

	list := r.ListExams()
	if len(list) != 2 || list[0].ID != "E001" || list[1].ID != "E002" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestCreateExam_Validation(t *testing.T) {
	r := NewRegistry(fixedClock)
	cases := []struct {
		name string
		in   NewExam
		want error
	}{
		{"empty name", NewExam{Name: "  ", Grade: "7", Subjects: []string{"all"}}, ErrInvalidName},
		{"grade out of range", NewExam{Name: "X", Grade: "13", Subjects: []string{"all"}}, ErrInvalidGrade},
		{"grade not numeric", NewExam{Name: "X", Grade: "seven", Subjects: []string{"all"}}, ErrInvalidGrade},
		{"unknown subject", NewExam{Name: "X", Grade: "7", Subjects: []string{"Maths", "Art"}}, ErrInvalidSubject},
		{"no subjects", NewExam{Name: "X", Grade: "7", Subjects: []string{" ", ""}}, ErrInvalidSubject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.CreateExam(tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if n := len(r.ListExams()); n != 0 {
		t.Fatalf("failed creations must not add exams, got %d", n)
	}
	// failures do not consume ids
	e, _ := r.CreateExam(NewExam{Name: "Ok", Grade: "1", Subjects: []string{"Tamil"}})
	if e.ID != "E001" {
		t.Fatalf("expected E001, got %s", e.ID)
	}
}

func TestCreateExam_SubjectNormalization(t *testing.T) {
	r := NewRegistry(fixedClock)
	e, err := r.CreateExam(NewExam{Name: "Unit", Grade: "class07", Subjects: ParseSubjects(" maths, Science ,Maths,, social science")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Maths", "Science", "Social Science"}
	if fmt.Sprint(e.Subjects) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, e.Subjects)
	}
	var se *SubjectError
	_, err = r.CreateExam(NewExam{Name: "Bad", Grade: "7", Subjects: []string{"Drama"}})
	if !errors.As(err, &se) || se.Subject != "Drama" {
		t.Fatalf("expected SubjectError naming Drama, got %v", err)
	}
}

func TestGetExam_CaseInsensitiveAndCopied(t *testing.T) {
	r := NewRegistry(fixedClock)
	created, _ := r.CreateExam(NewExam{Name: "Quiz", Grade: "3", Subjects: []string{"English"}})
	got, err := r.GetExam(" e001 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got.Subjects[0] = "Tampered"
	again, _ := r.GetExam(created.ID)
	if again.Subjects[0] != "English" {
		t.Fatalf("registry state leaked through returned exam")
	}
	if _, err := r.GetExam("E999"); !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("expected ErrExamNotFound, got %v", err)
	}
}

func TestCreateExam_ConcurrentIDsUnique(t *testing.T) {
	r := NewRegistry(nil)
	const n = 50
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := r.CreateExam(NewExam{Name: "Exam", Grade: "5", Subjects: []string{"all"}})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			ids <- e.ID
		}()
	}
	wg.Wait()
	close(ids)
	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n || len(r.ListExams()) != n {
		t.Fatalf("expected %d unique exams, got %d ids / %d exams", n, len(seen), len(r.ListExams()))
	}
}
