package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-school/internal/audit"
	"github.com/mind-engage/mindengage-school/internal/staff"
)

// experience accepts 5 or "5".
type teacherReq struct {
	Name           string          `json:"name"`
	Experience     json.RawMessage `json:"experience"`
	Qualifications string          `json:"qualifications"`
}

func CreateTeacherHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req teacherReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		exp, err := rawText(req.Experience)
		if err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		t, err := d.Staff.Add(staff.TeacherInput{Name: req.Name, Experience: exp, Qualifications: req.Qualifications})
		if err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypeTeacherAdded, t.ID, t)
		writeJSON(w, http.StatusCreated, t)
	}
}

func ListTeachersHandler(dir *staff.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.List())
	}
}

func GetTeacherHandler(dir *staff.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := dir.Get(chi.URLParam(r, "teacherID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func UpdateTeacherHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name           *string         `json:"name"`
			Experience     json.RawMessage `json:"experience"`
			Qualifications *string         `json:"qualifications"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		p := staff.TeacherPatch{Name: req.Name, Qualifications: req.Qualifications}
		if len(req.Experience) > 0 && string(req.Experience) != "null" {
			exp, err := rawText(req.Experience)
			if err != nil {
				http.Error(w, "bad json", 400)
				return
			}
			p.Experience = &exp
		}
		t, err := d.Staff.Update(chi.URLParam(r, "teacherID"), p)
		if err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypeTeacherUpdated, t.ID, t)
		writeJSON(w, http.StatusOK, t)
	}
}

func RemoveTeacherHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Staff.Get(chi.URLParam(r, "teacherID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := d.Staff.Remove(t.ID); err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypeTeacherRemoved, t.ID, t)
		w.WriteHeader(http.StatusNoContent)
	}
}

func AssignSubjectHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Subject string `json:"subject"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		t, err := d.Staff.Assign(chi.URLParam(r, "teacherID"), req.Subject)
		if err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypeSubjectAssigned, t.ID, map[string]string{"teacher_id": t.ID, "subject": req.Subject})
		writeJSON(w, http.StatusOK, t)
	}
}

// SubjectTeachersHandler lists the catalog with the teachers of each subject.
func SubjectTeachersHandler(dir *staff.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.BySubject())
	}
}
