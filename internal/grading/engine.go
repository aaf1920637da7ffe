package grading

import (
	"context"

	"github.com/mind-engage/mindengage-school/internal/exam"
	"github.com/mind-engage/mindengage-school/internal/roster"
)

// ExamLister yields exams in creation order.
type ExamLister interface {
	ListExams() []exam.Exam
}

// MarksReader yields a student's recorded scores keyed by exam id.
type MarksReader interface {
	StudentMarks(studentID string) map[string]map[string]int
}

type SubjectScore struct {
	Subject string `json:"subject"`
	Score   *int   `json:"score"` // nil when not graded yet
}

func (s SubjectScore) Graded() bool { return s.Score != nil }

// ExamReport summarizes one exam on a report card. Average and Letter are
// omitted when no subject has been graded.
type ExamReport struct {
	ExamID   string         `json:"exam_id"`
	ExamName string         `json:"exam_name"`
	Date     string         `json:"date"`
	Subjects []SubjectScore `json:"subjects"`
	Total    int            `json:"total"`
	Count    int            `json:"count"`
	Average  *float64       `json:"average,omitempty"`
	Letter   string         `json:"letter,omitempty"`
}

type ReportCard struct {
	Student roster.Student `json:"student"`
	Exams   []ExamReport   `json:"exams"`
}

type Option func(*config)

type config struct {
	Scale Scale
}

func WithScale(s Scale) Option { return func(c *config) { c.Scale = s } }

// Engine derives letter grades and report cards from the marks ledger.
// It never writes to the ledger.
type Engine struct {
	exams    ExamLister
	marks    MarksReader
	students roster.Provider
	scale    Scale
}

func NewEngine(exams ExamLister, marks MarksReader, students roster.Provider, opts ...Option) *Engine {
	cfg := &config{Scale: DefaultScale}
	for _, o := range opts {
		o(cfg)
	}
	return &Engine{exams: exams, marks: marks, students: students, scale: cfg.Scale}
}

func (e *Engine) Letter(avg float64) string { return e.scale.Letter(avg) }

// ReportCard lists every exam in which the student has at least one mark.
// A student with no marks gets an empty list, not an error.
func (e *Engine) ReportCard(ctx context.Context, studentID string) (ReportCard, error) {
	st, err := e.students.Resolve(ctx, studentID)
	if err != nil {
		return ReportCard{}, err
	}
	byExam := e.marks.StudentMarks(st.RegNo)
	card := ReportCard{Student: st, Exams: []ExamReport{}}
	for _, ex := range e.exams.ListExams() {
		scores, ok := byExam[ex.ID]
		if !ok || len(scores) == 0 {
			continue
		}
		card.Exams = append(card.Exams, e.examReport(ex, scores))
	}
	return card, nil
}

func (e *Engine) examReport(ex exam.Exam, scores map[string]int) ExamReport {
	rep := ExamReport{ExamID: ex.ID, ExamName: ex.Name, Date: ex.Date, Subjects: make([]SubjectScore, 0, len(ex.Subjects))}
	for _, subj := range ex.Subjects {
		ss := SubjectScore{Subject: subj}
		if v, ok := scores[subj]; ok {
			v := v
			ss.Score = &v
			rep.Total += v
			rep.Count++
		}
		rep.Subjects = append(rep.Subjects, ss)
	}
	if rep.Count > 0 {
		avg := float64(rep.Total) / float64(rep.Count)
		rep.Average = &avg
		rep.Letter = e.scale.Letter(avg)
	}
	return rep
}
