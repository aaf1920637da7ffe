package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-school/internal/audit"
	"github.com/mind-engage/mindengage-school/internal/roster"
)

const maxImportBytes = 10 << 20

func CreateStudentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in roster.StudentInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		st, err := roster.NewStudent(in)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := d.Students.Add(r.Context(), st); err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypeStudentAdded, st.RegNo, st)
		writeJSON(w, http.StatusCreated, st)
	}
}

func ListStudentsHandler(students roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			list []roster.Student
			err  error
		)
		if c := strings.TrimSpace(r.URL.Query().Get("class")); c != "" {
			grade, nerr := roster.NormalizeClass(c)
			if nerr != nil {
				writeErr(w, nerr)
				return
			}
			list, err = students.ListByClass(r.Context(), grade)
		} else {
			list, err = students.List(r.Context())
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []roster.Student{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetStudentHandler(students roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := students.Resolve(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// ImportStudentsHandler accepts a multipart upload with the workbook in "file".
func ImportStudentsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", 400)
			return
		}
		defer f.Close()

		res, err := roster.ImportXLSX(r.Context(), f, d.Students)
		if res.Imported > 0 {
			record(r, d, audit.TypeStudentAdded, "import", res)
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func UpdateStudentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p roster.StudentPatch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		cur, err := d.Students.Resolve(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		st, err := p.Apply(cur)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := d.Students.Update(r.Context(), st); err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypeStudentUpdated, st.RegNo, st)
		writeJSON(w, http.StatusOK, st)
	}
}

// RemoveStudentHandler drops the student from the roster. Recorded marks
// and payments stay in place.
func RemoveStudentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := d.Students.Resolve(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := d.Students.Remove(r.Context(), st.RegNo); err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypeStudentRemoved, st.RegNo, st)
		w.WriteHeader(http.StatusNoContent)
	}
}

// SearchStudentsHandler matches ?q= against names and register numbers.
func SearchStudentsHandler(students roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := students.List(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, roster.Search(all, r.URL.Query().Get("q")))
	}
}

func CountStudentsHandler(students roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := students.List(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, roster.CountByClass(all))
	}
}
