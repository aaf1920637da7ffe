package exam

import (
	"errors"
	"fmt"

	"github.com/mind-engage/mindengage-school/internal/roster"
)

var (
	ErrInvalidName     = errors.New("exam name required")
	ErrInvalidGrade    = roster.ErrInvalidGrade
	ErrInvalidSubject  = errors.New("invalid subject")
	ErrExamNotFound    = errors.New("exam not found")
	ErrStudentNotFound = roster.ErrStudentNotFound
	ErrGradeMismatch   = errors.New("student not eligible for exam")
	ErrInvalidScore    = errors.New("invalid marks")
)

type SubjectError struct {
	Subject string
	Reason  string
}

func (e *SubjectError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid subject %q: %s", e.Subject, e.Reason)
	}
	return fmt.Sprintf("invalid subject %q", e.Subject)
}

func (e *SubjectError) Unwrap() error { return ErrInvalidSubject }

// ScoreError reports the subject whose score was missing or out of range.
type ScoreError struct {
	Subject string
	Raw     string
	Missing bool
}

func (e *ScoreError) Error() string {
	if e.Missing {
		return fmt.Sprintf("marks for %s missing", e.Subject)
	}
	return fmt.Sprintf("invalid marks for %s: %q (must be 0-100)", e.Subject, e.Raw)
}

func (e *ScoreError) Unwrap() error { return ErrInvalidScore }
