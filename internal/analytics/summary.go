// Package analytics aggregates ledger entries into per-exam class statistics.
package analytics

import (
	"context"
	"errors"
	"sort"

	"github.com/mind-engage/mindengage-school/internal/exam"
	"github.com/mind-engage/mindengage-school/internal/roster"
)

var ErrNoMarksYet = errors.New("no marks entered for this exam")

const defaultTopN = 5

// SheetReader yields a consistent snapshot of one exam's entries.
type SheetReader interface {
	Sheet(examID string) (exam.Sheet, error)
}

type SubjectAverage struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type StudentTotal struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name,omitempty"`
	Total     int    `json:"total"`
}

type Summary struct {
	ExamID   string `json:"exam_id"`
	ExamName string `json:"exam_name"`
	Grade    string `json:"grade"`
	// SubjectAverages follows the exam's subject order and omits subjects
	// nobody has been graded in.
	SubjectAverages []SubjectAverage `json:"subject_averages"`
	// Totals is in first-recorded order.
	Totals []StudentTotal `json:"totals"`
	// ClassAverage divides all points earned by students × exam subjects,
	// counting ungraded subjects as possible slots.
	ClassAverage  float64        `json:"class_average"`
	TopPerformers []StudentTotal `json:"top_performers"`
}

// AverageFor reports the average for a subject, if anyone was graded in it.
func (s Summary) AverageFor(subject string) (float64, bool) {
	for _, a := range s.SubjectAverages {
		if a.Subject == subject {
			return a.Average, true
		}
	}
	return 0, false
}

type Option func(*Analyzer)

// WithTopN changes how many top performers are returned.
func WithTopN(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.topN = n
		}
	}
}

type Analyzer struct {
	sheets   SheetReader
	students roster.Provider // optional, for names
	topN     int
}

func NewAnalyzer(sheets SheetReader, students roster.Provider, opts ...Option) *Analyzer {
	a := &Analyzer{sheets: sheets, students: students, topN: defaultTopN}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Analyzer) SummarizeExam(ctx context.Context, examID string) (Summary, error) {
	sh, err := a.sheets.Sheet(examID)
	if err != nil {
		return Summary{}, err
	}
	if len(sh.Entries) == 0 || len(sh.Exam.Subjects) == 0 {
		return Summary{}, ErrNoMarksYet
	}

	sum := Summary{
		ExamID:          sh.Exam.ID,
		ExamName:        sh.Exam.Name,
		Grade:           sh.Exam.Grade,
		SubjectAverages: []SubjectAverage{},
		Totals:          make([]StudentTotal, 0, len(sh.Entries)),
	}

	bySubject := make(map[string][]int, len(sh.Exam.Subjects))
	points := 0
	for _, en := range sh.Entries {
		st := StudentTotal{StudentID: en.StudentID, Name: a.nameOf(ctx, en.StudentID)}
		for _, v := range en.Scores {
			st.Total += v
		}
		for _, subj := range sh.Exam.Subjects {
			if v, ok := en.Scores[subj]; ok {
				bySubject[subj] = append(bySubject[subj], v)
			}
		}
		points += st.Total
		sum.Totals = append(sum.Totals, st)
	}

	for _, subj := range sh.Exam.Subjects {
		vals := bySubject[subj]
		if len(vals) == 0 {
			continue
		}
		t := 0
		for _, v := range vals {
			t += v
		}
		sum.SubjectAverages = append(sum.SubjectAverages, SubjectAverage{
			Subject: subj,
			Average: float64(t) / float64(len(vals)),
			Count:   len(vals),
		})
	}

	slots := len(sum.Totals) * len(sh.Exam.Subjects)
	sum.ClassAverage = float64(points) / float64(slots)

	ranked := append([]StudentTotal(nil), sum.Totals...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Total > ranked[j].Total })
	if len(ranked) > a.topN {
		ranked = ranked[:a.topN]
	}
	sum.TopPerformers = ranked
	return sum, nil
}

func (a *Analyzer) nameOf(ctx context.Context, id string) string {
	if a.students == nil {
		return ""
	}
	st, err := a.students.Resolve(ctx, id)
	if err != nil {
		return ""
	}
	return st.Name
}
