package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-school/internal/analytics"
	"github.com/mind-engage/mindengage-school/internal/export"
	"github.com/mind-engage/mindengage-school/internal/grading"
)

func SummaryHandler(a *analytics.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := a.SummarizeExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func SummaryXLSXHandler(a *analytics.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := a.SummarizeExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		setAttachment(w, fmt.Sprintf("%s-summary.xlsx", s.ExamID))
		if err := export.WriteSummary(w, s); err != nil {
			http.Error(w, err.Error(), 500)
		}
	}
}

func ReportCardHandler(e *grading.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, err := e.ReportCard(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rc)
	}
}

func ReportCardXLSXHandler(e *grading.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, err := e.ReportCard(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		setAttachment(w, fmt.Sprintf("%s-report-card.xlsx", rc.Student.RegNo))
		if err := export.WriteReportCard(w, rc); err != nil {
			http.Error(w, err.Error(), 500)
		}
	}
}

func setAttachment(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}
