package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-school/internal/analytics"
	"github.com/mind-engage/mindengage-school/internal/audit"
	"github.com/mind-engage/mindengage-school/internal/exam"
	"github.com/mind-engage/mindengage-school/internal/fees"
	"github.com/mind-engage/mindengage-school/internal/grading"
	"github.com/mind-engage/mindengage-school/internal/roster"
	"github.com/mind-engage/mindengage-school/internal/staff"
	"github.com/mind-engage/mindengage-school/internal/timetable"
)

// EventLister is the read side of the audit log.
type EventLister interface {
	List(ctx context.Context, key string, limit int) ([]audit.Event, error)
}

type Deps struct {
	Students   roster.Store
	Exams      *exam.Registry
	Ledger     *exam.Ledger
	Grading    *grading.Engine
	Analyzer   *analytics.Analyzer
	Fees       *fees.Book
	Staff      *staff.Directory
	Timetables *timetable.Book

	Audit  audit.Recorder // nil disables recording
	Events EventLister    // nil leaves /audit unmounted
	Log    *slog.Logger
}

func Mount(r chi.Router, d Deps) {
	if d.Audit == nil {
		d.Audit = audit.Nop{}
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Route("/students", func(sr chi.Router) {
		sr.Post("/", CreateStudentHandler(d))
		sr.Get("/", ListStudentsHandler(d.Students))
		sr.Post("/import", ImportStudentsHandler(d))
		sr.Get("/search", SearchStudentsHandler(d.Students))
		sr.Get("/counts", CountStudentsHandler(d.Students))
		sr.Get("/{studentID}", GetStudentHandler(d.Students))
		sr.Patch("/{studentID}", UpdateStudentHandler(d))
		sr.Delete("/{studentID}", RemoveStudentHandler(d))
		sr.Get("/{studentID}/report-card", ReportCardHandler(d.Grading))
		sr.Get("/{studentID}/report-card.xlsx", ReportCardXLSXHandler(d.Grading))
	})

	r.Route("/teachers", func(tr chi.Router) {
		tr.Post("/", CreateTeacherHandler(d))
		tr.Get("/", ListTeachersHandler(d.Staff))
		tr.Get("/{teacherID}", GetTeacherHandler(d.Staff))
		tr.Patch("/{teacherID}", UpdateTeacherHandler(d))
		tr.Delete("/{teacherID}", RemoveTeacherHandler(d))
		tr.Post("/{teacherID}/subjects", AssignSubjectHandler(d))
	})
	r.Get("/subjects", SubjectTeachersHandler(d.Staff))

	r.Route("/timetables", func(tr chi.Router) {
		tr.Get("/", ListTimetablesHandler(d.Timetables))
		tr.Get("/periods", PeriodTimingsHandler())
		tr.Put("/{class}", SetTimetableHandler(d))
		tr.Get("/{class}", GetTimetableHandler(d.Timetables))
		tr.Delete("/{class}", RemoveTimetableHandler(d))
		tr.Post("/{class}/clear", ClearTimetableHandler(d))
		tr.Put("/{class}/{day}/{period}", SetPeriodHandler(d))
		tr.Delete("/{class}/{day}", RemoveDayHandler(d))
		tr.Post("/{class}/{day}/clear", ClearDayHandler(d))
	})

	r.Route("/exams", func(er chi.Router) {
		er.Post("/", CreateExamHandler(d))
		er.Get("/", ListExamsHandler(d.Exams))
		er.Get("/{examID}", GetExamHandler(d.Exams))
		er.Put("/{examID}/marks/{studentID}", RecordMarksHandler(d))
		er.Get("/{examID}/marks/{studentID}", GetMarksHandler(d.Exams, d.Ledger, d.Students))
		er.Get("/{examID}/summary", SummaryHandler(d.Analyzer))
		er.Get("/{examID}/summary.xlsx", SummaryXLSXHandler(d.Analyzer))
	})

	r.Route("/fees", func(fr chi.Router) {
		fr.Put("/classes/{class}", SetClassFeeHandler(d))
		fr.Get("/classes/{class}", ClassFeeReportHandler(d.Fees))
		fr.Post("/payments", RecordPaymentHandler(d))
		fr.Get("/students/{studentID}", FeeStatementHandler(d.Fees))
		fr.Get("/students/{studentID}/payments", PaymentHistoryHandler(d.Fees))
	})

	if d.Events != nil {
		r.Get("/audit", ListEventsHandler(d.Events))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, roster.ErrStudentNotFound),
		errors.Is(err, exam.ErrExamNotFound),
		errors.Is(err, analytics.ErrNoMarksYet),
		errors.Is(err, fees.ErrNoStudents),
		errors.Is(err, staff.ErrTeacherNotFound),
		errors.Is(err, timetable.ErrNoTimetable):
		return http.StatusNotFound
	case errors.Is(err, exam.ErrGradeMismatch),
		errors.Is(err, roster.ErrDuplicateStudent),
		errors.Is(err, staff.ErrAlreadyAssigned):
		return http.StatusConflict
	case errors.Is(err, exam.ErrInvalidSubject),
		errors.Is(err, exam.ErrInvalidScore),
		errors.Is(err, exam.ErrInvalidName),
		errors.Is(err, roster.ErrInvalidGrade),
		errors.Is(err, roster.ErrInvalidStudent),
		errors.Is(err, roster.ErrBadWorkbook),
		errors.Is(err, fees.ErrInvalidAmount),
		errors.Is(err, staff.ErrInvalidTeacher),
		errors.Is(err, staff.ErrInvalidSubject),
		errors.Is(err, timetable.ErrInvalidDay),
		errors.Is(err, timetable.ErrInvalidPeriod),
		errors.Is(err, timetable.ErrInvalidSubject):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// record appends an audit event; the write it describes has already succeeded.
func record(r *http.Request, d Deps, typ, key string, data any) {
	if d.Audit == nil {
		return
	}
	if err := d.Audit.Record(r.Context(), typ, key, data); err != nil {
		log := d.Log
		if log == nil {
			log = slog.Default()
		}
		log.Warn("audit record failed", "type", typ, "key", key, "err", err)
	}
}

// rawText reads a JSON string or a bare literal as text, so 85 and "85"
// are validated the same way downstream.
func rawText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] != '"' {
		return string(raw), nil
	}
	var s string
	err := json.Unmarshal(raw, &s)
	return s, err
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
