package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-school/internal/audit"
	"github.com/mind-engage/mindengage-school/internal/roster"
	"github.com/mind-engage/mindengage-school/internal/timetable"
)

func PeriodTimingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]timetable.Slot{
			"periods": timetable.Periods,
			"breaks":  timetable.Breaks,
		})
	}
}

func ListTimetablesHandler(book *timetable.Book) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, book.Classes())
	}
}

// SetTimetableHandler takes {"Monday": ["Tamil", ...7 periods], ...} for all five weekdays.
func SetTimetableHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var week map[string][]string
		if err := json.NewDecoder(r.Body).Decode(&week); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		tt, err := d.Timetables.Set(chi.URLParam(r, "class"), week)
		if err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypeTimetableSet, tt.Grade, tt)
		writeJSON(w, http.StatusOK, tt)
	}
}

func GetTimetableHandler(book *timetable.Book) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tt, err := book.Get(chi.URLParam(r, "class"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tt)
	}
}

func SetPeriodHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Subject string `json:"subject"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		period, err := strconv.Atoi(chi.URLParam(r, "period"))
		if err != nil {
			writeErr(w, timetable.ErrInvalidPeriod)
			return
		}
		tt, err := d.Timetables.SetPeriod(chi.URLParam(r, "class"), chi.URLParam(r, "day"), period, req.Subject)
		respondEdit(w, r, d, tt, err)
	}
}

func ClearDayHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tt, err := d.Timetables.ClearDay(chi.URLParam(r, "class"), chi.URLParam(r, "day"))
		respondEdit(w, r, d, tt, err)
	}
}

func RemoveDayHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tt, err := d.Timetables.RemoveDay(chi.URLParam(r, "class"), chi.URLParam(r, "day"))
		respondEdit(w, r, d, tt, err)
	}
}

func ClearTimetableHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tt, err := d.Timetables.ClearAll(chi.URLParam(r, "class"))
		respondEdit(w, r, d, tt, err)
	}
}

func RemoveTimetableHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grade, err := roster.NormalizeClass(chi.URLParam(r, "class"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := d.Timetables.Remove(grade); err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypeTimetableEdited, grade, map[string]string{"action": "removed"})
		w.WriteHeader(http.StatusNoContent)
	}
}

func respondEdit(w http.ResponseWriter, r *http.Request, d Deps, tt timetable.Timetable, err error) {
	if err != nil {
		writeErr(w, err)
		return
	}
	record(r, d, audit.TypeTimetableEdited, tt.Grade, tt)
	writeJSON(w, http.StatusOK, tt)
}
