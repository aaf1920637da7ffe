// Package export renders reports as Excel workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/mindengage-school/internal/analytics"
	"github.com/mind-engage/mindengage-school/internal/grading"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// rowWriter appends rows to one sheet and keeps the first error.
type rowWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *rowWriter) add(vals ...interface{}) {
	if w.err != nil {
		return
	}
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &vals)
}

func (w *rowWriter) blank() { w.row++ }

func newSheet(f *excelize.File, name string, first bool) (*rowWriter, error) {
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return nil, err
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return nil, err
	}
	return &rowWriter{f: f, sheet: name}, nil
}

// WriteSummary writes an exam summary: overview and subject averages on the
// first sheet, every student's total on the second, top performers on the third.
func WriteSummary(w io.Writer, s analytics.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	ov, err := newSheet(f, "Summary", true)
	if err != nil {
		return err
	}
	ov.add("Exam", s.ExamID)
	ov.add("Name", s.ExamName)
	ov.add("Class", s.Grade)
	ov.add("Class average", round2(s.ClassAverage))
	ov.blank()
	ov.add("Subject", "Average", "Graded")
	for _, a := range s.SubjectAverages {
		ov.add(a.Subject, round2(a.Average), a.Count)
	}

	tot, err := newSheet(f, "Totals", false)
	if err != nil {
		return err
	}
	tot.add("Student", "Name", "Total")
	for _, t := range s.Totals {
		tot.add(t.StudentID, t.Name, t.Total)
	}

	top, err := newSheet(f, "Top performers", false)
	if err != nil {
		return err
	}
	top.add("Rank", "Student", "Name", "Total")
	for i, t := range s.TopPerformers {
		top.add(i+1, t.StudentID, t.Name, t.Total)
	}

	for _, rw := range []*rowWriter{ov, tot, top} {
		if rw.err != nil {
			return fmt.Errorf("write sheet %s: %w", rw.sheet, rw.err)
		}
	}
	return f.Write(w)
}

// WriteReportCard writes one block per exam; ungraded subjects show "-".
func WriteReportCard(w io.Writer, rc grading.ReportCard) error {
	f := excelize.NewFile()
	defer f.Close()

	sh, err := newSheet(f, "Report card", true)
	if err != nil {
		return err
	}
	sh.add("Student", rc.Student.RegNo, rc.Student.Name)
	sh.add("Class", rc.Student.Grade)
	if len(rc.Exams) == 0 {
		sh.blank()
		sh.add("No marks recorded for this student yet.")
	}
	for _, ex := range rc.Exams {
		sh.blank()
		sh.add("Exam", ex.ExamID, ex.ExamName, ex.Date)
		for _, subj := range ex.Subjects {
			if subj.Score == nil {
				sh.add(subj.Subject, "-")
			} else {
				sh.add(subj.Subject, *subj.Score)
			}
		}
		if ex.Average != nil {
			sh.add("Total", ex.Total, "Average", round2(*ex.Average), "Grade", ex.Letter)
		}
	}
	if sh.err != nil {
		return fmt.Errorf("write report card: %w", sh.err)
	}
	return f.Write(w)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
