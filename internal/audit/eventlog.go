// Package audit keeps an append-only log of successful writes.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeStudentAdded    = "StudentAdded"
	TypeStudentUpdated  = "StudentUpdated"
	TypeStudentRemoved  = "StudentRemoved"
	TypeTeacherAdded    = "TeacherAdded"
	TypeTeacherUpdated  = "TeacherUpdated"
	TypeTeacherRemoved  = "TeacherRemoved"
	TypeSubjectAssigned = "SubjectAssigned"
	TypeTimetableSet    = "TimetableSet"
	TypeTimetableEdited = "TimetableEdited"
	TypeExamCreated     = "ExamCreated"
	TypeMarksRecorded   = "MarksRecorded"
	TypeClassFeeSet     = "ClassFeeSet"
	TypePaymentRecorded = "PaymentRecorded"
)

type Event struct {
	Seq       int64           `json:"seq"`
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
}

// Recorder is what write paths call after they succeed.
type Recorder interface {
	Record(ctx context.Context, typ, key string, data any) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, string, string, any) error { return nil }

type EventRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db, now: time.Now} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.ID, e.Type, e.Key, string(e.Data), r.now().Unix())
	return err
}

func (r *EventRepo) Record(ctx context.Context, typ, key string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{Type: typ, Key: key, Data: buf})
}

// List returns the newest events first, optionally filtered by key.
func (r *EventRepo) List(ctx context.Context, key string, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT seq, id, typ, key, data, created_at FROM event_log`
	args := []any{}
	if key != "" {
		q += ` WHERE key=$1 ORDER BY seq DESC LIMIT $2`
		args = append(args, key, limit)
	} else {
		q += ` ORDER BY seq DESC LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var e Event
		var data string
		if err := rows.Scan(&e.Seq, &e.ID, &e.Type, &e.Key, &data, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Data = json.RawMessage(data)
		out = append(out, e)
	}
	return out, rows.Err()
}
