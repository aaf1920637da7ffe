package fees

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-school/internal/roster"
)

func newBook(t *testing.T) *Book {
	t.Helper()
	students := roster.NewMemory(
		roster.Student{RegNo: "S1", Name: "Asha", Grade: "Class 7"},
		roster.Student{RegNo: "S2", Name: "Bala", Grade: "Class 7"},
		roster.Student{RegNo: "S3", Name: "Chitra", Grade: "Class 8"},
	)
	return NewBook(students, DefaultClassFee, func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) })
}

func TestStatement_DefaultFeeAndPayments(t *testing.T) {
	ctx := context.Background()
	b := newBook(t)
	st, err := b.Statement(ctx, "S1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Fee != DefaultClassFee || st.Paid != 0 || st.Due != DefaultClassFee {
		t.Fatalf("unexpected statement: %+v", st)
	}

	p, err := b.RecordPayment(ctx, "s1", 4000, "")
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if p.Method != "Cash" || p.ID == "" || p.StudentID != "S1" {
		t.Fatalf("unexpected payment: %+v", p)
	}
	if _, err := b.RecordPayment(ctx, "S1", 7000, "Online"); err != nil {
		t.Fatalf("record payment: %v", err)
	}
	st, _ = b.Statement(ctx, "S1")
	if st.Paid != 11000 || st.Due != 0 {
		t.Fatalf("overpayment must clamp due at zero: %+v", st)
	}
	hist, _ := b.History(ctx, "S1")
	if len(hist) != 2 || hist[0].Amount != 4000 || hist[1].Method != "Online" {
		t.Fatalf("unexpected history: %+v", hist)
	}
}

func TestSetClassFee(t *testing.T) {
	b := newBook(t)
	g, err := b.SetClassFee("7", 12000)
	if err != nil || g != "Class 7" {
		t.Fatalf("set fee: %q %v", g, err)
	}
	if b.ClassFee("Class 7") != 12000 || b.ClassFee("Class 8") != DefaultClassFee {
		t.Fatalf("unexpected fees")
	}
	if _, err := b.SetClassFee("20", 1); !errors.Is(err, roster.ErrInvalidGrade) {
		t.Fatalf("expected ErrInvalidGrade, got %v", err)
	}
	if _, err := b.SetClassFee("7", -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRecordPayment_Errors(t *testing.T) {
	b := newBook(t)
	if _, err := b.RecordPayment(context.Background(), "nobody", 10, ""); !errors.Is(err, roster.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
	if _, err := b.RecordPayment(context.Background(), "S1", 0, ""); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestClassReport(t *testing.T) {
	ctx := context.Background()
	b := newBook(t)
	b.SetClassFee("Class 7", 5000)
	b.RecordPayment(ctx, "S1", 2000, "Card")
	b.RecordPayment(ctx, "S2", 6000, "Cash")
	rep, err := b.ClassReport(ctx, "7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Students != 2 || rep.TotalPaid != 8000 || rep.TotalDue != 3000 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if _, err := b.ClassReport(ctx, "12"); !errors.Is(err, ErrNoStudents) {
		t.Fatalf("expected ErrNoStudents, got %v", err)
	}
}
