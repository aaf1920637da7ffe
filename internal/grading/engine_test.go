package grading_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-school/internal/exam"
	"github.com/mind-engage/mindengage-school/internal/grading"
	"github.com/mind-engage/mindengage-school/internal/roster"
)

type fixture struct {
	reg    *exam.Registry
	ledger *exam.Ledger
	engine *grading.Engine
}

func newFixture(t *testing.T, opts ...grading.Option) fixture {
	t.Helper()
	students := roster.NewMemory(
		roster.Student{RegNo: "S1", Name: "Asha", Grade: "Class 7"},
		roster.Student{RegNo: "S2", Name: "Bala", Grade: "Class 7"},
		roster.Student{RegNo: "S3", Name: "Devi", Grade: "Class 7"},
	)
	reg := exam.NewRegistry(func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) })
	ledger := exam.NewLedger(reg, students)
	return fixture{reg: reg, ledger: ledger, engine: grading.NewEngine(reg, ledger, students, opts...)}
}

func (f fixture) exam(t *testing.T, name string, subjects ...string) exam.Exam {
	t.Helper()
	e, err := f.reg.CreateExam(exam.NewExam{Name: name, Grade: "7", Subjects: subjects})
	if err != nil {
		t.Fatalf("create exam: %v", err)
	}
	return e
}

func (f fixture) record(t *testing.T, examID, student string, scores map[string]string) {
	t.Helper()
	if _, err := f.ledger.RecordMarks(context.Background(), examID, student, scores); err != nil {
		t.Fatalf("record marks: %v", err)
	}
}

func TestReportCard_NoMarksIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.exam(t, "Midterm", "Maths")
	card, err := f.engine.ReportCard(context.Background(), "S1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Exams == nil || len(card.Exams) != 0 {
		t.Fatalf("expected empty exam list, got %+v", card.Exams)
	}
	if card.Student.Name != "Asha" {
		t.Fatalf("expected student details, got %+v", card.Student)
	}
}

func TestReportCard_UnknownStudent(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.ReportCard(context.Background(), "ghost"); !errors.Is(err, roster.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestReportCard_TotalsAndLetters(t *testing.T) {
	f := newFixture(t)
	mid := f.exam(t, "Midterm", "Maths", "Science")
	f.exam(t, "Unrecorded", "Tamil")
	fin := f.exam(t, "Final", "English", "Maths")

	f.record(t, mid.ID, "S1", map[string]string{"Maths": "80", "Science": "90"})
	f.record(t, fin.ID, "S1", map[string]string{"English": "45", "Maths": "50"})

	card, err := f.engine.ReportCard(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(card.Exams) != 2 || card.Exams[0].ExamID != mid.ID || card.Exams[1].ExamID != fin.ID {
		t.Fatalf("expected midterm then final, got %+v", card.Exams)
	}
	m := card.Exams[0]
	if m.Total != 170 || m.Count != 2 || m.Average == nil || *m.Average != 85 || m.Letter != "A" {
		t.Fatalf("unexpected midterm report: %+v", m)
	}
	fr := card.Exams[1]
	if fr.Total != 95 || *fr.Average != 47.5 || fr.Letter != "F" {
		t.Fatalf("unexpected final report: %+v", fr)
	}
	if fr.Date != "2024-01-02" {
		t.Fatalf("expected exam date, got %q", fr.Date)
	}
}

func TestReportCard_CustomScale(t *testing.T) {
	f := newFixture(t, grading.WithScale(grading.Scale{Bands: []grading.Band{{Min: 75, Letter: "Pass"}}, Fallback: "Fail"}))
	e := f.exam(t, "Quiz", "Maths")
	f.record(t, e.ID, "S3", map[string]string{"Maths": "75"})
	card, _ := f.engine.ReportCard(context.Background(), "S3")
	if card.Exams[0].Letter != "Pass" {
		t.Fatalf("expected custom letter, got %q", card.Exams[0].Letter)
	}
	if f.engine.Letter(74) != "Fail" {
		t.Fatalf("expected engine to use custom scale")
	}
}

// fakeMarks lets a report include an exam with only part of its subjects graded.
type fakeMarks map[string]map[string]int

func (f fakeMarks) StudentMarks(string) map[string]map[string]int { return f }

func TestReportCard_PartialMarksDivideByRecordedCount(t *testing.T) {
	students := roster.NewMemory(roster.Student{RegNo: "S2", Grade: "Class 7"})
	reg := exam.NewRegistry(nil)
	e, _ := reg.CreateExam(exam.NewExam{Name: "Midterm", Grade: "7", Subjects: []string{"Maths", "Science"}})
	eng := grading.NewEngine(reg, fakeMarks{e.ID: {"Maths": 60}}, students)

	card, err := eng.ReportCard(context.Background(), "S2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rep := card.Exams[0]
	if rep.Count != 1 || rep.Total != 60 || *rep.Average != 60.0 || rep.Letter != "C" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if !rep.Subjects[0].Graded() || rep.Subjects[1].Graded() {
		t.Fatalf("expected Science to be marked not graded: %+v", rep.Subjects)
	}
}

func TestReportCard_EmptyEntryExcluded(t *testing.T) {
	students := roster.NewMemory(roster.Student{RegNo: "S2", Grade: "Class 7"})
	reg := exam.NewRegistry(nil)
	e, _ := reg.CreateExam(exam.NewExam{Name: "Midterm", Grade: "7", Subjects: []string{"Maths"}})
	eng := grading.NewEngine(reg, fakeMarks{e.ID: {}}, students)
	card, _ := eng.ReportCard(context.Background(), "S2")
	if len(card.Exams) != 0 {
		t.Fatalf("exam without recorded marks must be excluded: %+v", card.Exams)
	}
}
