package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-school/internal/audit"
	"github.com/mind-engage/mindengage-school/internal/exam"
	"github.com/mind-engage/mindengage-school/internal/roster"
)

type marksResp struct {
	ExamID    string         `json:"exam_id"`
	StudentID string         `json:"student_id"`
	Scores    map[string]int `json:"scores"`
}

// RecordMarksHandler takes {"Maths": 90, "Science": "85"}. Numbers are passed
// through as their literal text so "85.5" is rejected the same way either way.
func RecordMarksHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		scores := make(map[string]string, len(body))
		for subject, raw := range body {
			v, err := rawText(raw)
			if err != nil {
				http.Error(w, "bad json", 400)
				return
			}
			scores[subject] = v
		}

		examID, studentID := chi.URLParam(r, "examID"), chi.URLParam(r, "studentID")
		merged, err := d.Ledger.RecordMarks(r.Context(), examID, studentID, scores)
		if err != nil {
			writeErr(w, err)
			return
		}
		resp := marksResp{
			ExamID:    canonicalExam(d.Exams, examID),
			StudentID: canonicalStudent(r, d.Students, studentID),
			Scores:    merged,
		}
		record(r, d, audit.TypeMarksRecorded, resp.ExamID+"/"+resp.StudentID, resp)
		writeJSON(w, http.StatusOK, resp)
	}
}

func GetMarksHandler(reg *exam.Registry, ledger *exam.Ledger, students roster.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ex, err := reg.GetExam(chi.URLParam(r, "examID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		studentID := chi.URLParam(r, "studentID")
		writeJSON(w, http.StatusOK, marksResp{
			ExamID:    ex.ID,
			StudentID: canonicalStudent(r, students, studentID),
			Scores:    ledger.GetMarks(ex.ID, studentID),
		})
	}
}

func canonicalExam(reg *exam.Registry, id string) string {
	if ex, err := reg.GetExam(id); err == nil {
		return ex.ID
	}
	return id
}

// canonicalStudent returns the register number as stored, or id when the
// student is not on the roster.
func canonicalStudent(r *http.Request, students roster.Provider, id string) string {
	if st, err := students.Resolve(r.Context(), id); err == nil {
		return st.RegNo
	}
	return id
}
