package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-school/internal/audit"
	"github.com/mind-engage/mindengage-school/internal/exam"
	"github.com/mind-engage/mindengage-school/internal/roster"
)

type createExamReq struct {
	Name     string          `json:"name"`
	Grade    string          `json:"grade"`
	Subjects json.RawMessage `json:"subjects"` // "all", "a, b" or ["a","b"]
	Date     string          `json:"date"`
}

func CreateExamHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createExamReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		subjects, err := decodeSubjects(req.Subjects)
		if err != nil {
			http.Error(w, "subjects must be a string or an array of strings", 400)
			return
		}
		ex, err := d.Exams.CreateExam(exam.NewExam{
			Name:     req.Name,
			Grade:    req.Grade,
			Subjects: subjects,
			Date:     req.Date,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypeExamCreated, ex.ID, ex)
		writeJSON(w, http.StatusCreated, ex)
	}
}

func decodeSubjects(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return exam.ParseSubjects(s), nil
}

func ListExamsHandler(reg *exam.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := reg.ListExams()
		if g := strings.TrimSpace(r.URL.Query().Get("class")); g != "" {
			grade, err := roster.NormalizeClass(g)
			if err != nil {
				writeErr(w, err)
				return
			}
			filtered := list[:0]
			for _, ex := range list {
				if ex.Grade == grade {
					filtered = append(filtered, ex)
				}
			}
			list = filtered
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetExamHandler(reg *exam.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ex, err := reg.GetExam(chi.URLParam(r, "examID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ex)
	}
}
