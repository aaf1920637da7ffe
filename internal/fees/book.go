// Package fees tracks the fee due per class and the payments made by students.
package fees

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-school/internal/roster"
)

const DefaultClassFee = 10000

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNoStudents    = errors.New("no students in this class")
)

// Directory is the roster view the fee book needs.
type Directory interface {
	roster.Provider
	ListByClass(ctx context.Context, grade string) ([]roster.Student, error)
}

type Payment struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Amount    int       `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
}

type Statement struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Grade     string `json:"grade"`
	Fee       int    `json:"fee"`
	Paid      int    `json:"paid"`
	Due       int    `json:"due"`
}

type ClassReport struct {
	Grade     string `json:"grade"`
	Fee       int    `json:"fee"`
	Students  int    `json:"students"`
	TotalPaid int    `json:"total_paid"`
	TotalDue  int    `json:"total_due"`
}

type Book struct {
	mu         sync.RWMutex
	students   Directory
	defaultFee int
	fees       map[string]int       // grade -> fee
	payments   map[string][]Payment // student key -> payments
	now        func() time.Time
}

func NewBook(students Directory, defaultFee int, now func() time.Time) *Book {
	if defaultFee < 0 {
		defaultFee = DefaultClassFee
	}
	if now == nil {
		now = time.Now
	}
	return &Book{
		students:   students,
		defaultFee: defaultFee,
		fees:       map[string]int{},
		payments:   map[string][]Payment{},
		now:        now,
	}
}

// SetClassFee sets the fee for a class given in any form NormalizeClass accepts.
func (b *Book) SetClassFee(grade string, amount int) (string, error) {
	g, err := roster.NormalizeClass(grade)
	if err != nil {
		return "", err
	}
	if amount < 0 {
		return "", ErrInvalidAmount
	}
	b.mu.Lock()
	b.fees[g] = amount
	b.mu.Unlock()
	return g, nil
}

// ClassFee returns the fee for a normalized class label.
func (b *Book) ClassFee(grade string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.classFee(grade)
}

func (b *Book) classFee(grade string) int {
	if fee, ok := b.fees[grade]; ok {
		return fee
	}
	return b.defaultFee
}

func (b *Book) RecordPayment(ctx context.Context, studentID string, amount int, method string) (Payment, error) {
	st, err := b.students.Resolve(ctx, studentID)
	if err != nil {
		return Payment{}, err
	}
	if amount <= 0 {
		return Payment{}, ErrInvalidAmount
	}
	method = strings.TrimSpace(method)
	if method == "" {
		method = "Cash"
	}
	p := Payment{
		ID:        uuid.NewString(),
		StudentID: st.RegNo,
		Amount:    amount,
		Method:    method,
		PaidAt:    b.now(),
	}
	b.mu.Lock()
	k := strings.ToLower(st.RegNo)
	b.payments[k] = append(b.payments[k], p)
	b.mu.Unlock()
	return p, nil
}

func (b *Book) Statement(ctx context.Context, studentID string) (Statement, error) {
	st, err := b.students.Resolve(ctx, studentID)
	if err != nil {
		return Statement{}, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	fee := b.classFee(st.Grade)
	paid := b.paid(st.RegNo)
	return Statement{
		StudentID: st.RegNo,
		Name:      st.Name,
		Grade:     st.Grade,
		Fee:       fee,
		Paid:      paid,
		Due:       max(fee-paid, 0),
	}, nil
}

// History returns the student's payments in the order they were recorded.
func (b *Book) History(ctx context.Context, studentID string) ([]Payment, error) {
	st, err := b.students.Resolve(ctx, studentID)
	if err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Payment{}, b.payments[strings.ToLower(st.RegNo)]...), nil
}

func (b *Book) ClassReport(ctx context.Context, grade string) (ClassReport, error) {
	g, err := roster.NormalizeClass(grade)
	if err != nil {
		return ClassReport{}, err
	}
	students, err := b.students.ListByClass(ctx, g)
	if err != nil {
		return ClassReport{}, err
	}
	if len(students) == 0 {
		return ClassReport{}, ErrNoStudents
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	rep := ClassReport{Grade: g, Fee: b.classFee(g), Students: len(students)}
	for _, st := range students {
		paid := b.paid(st.RegNo)
		rep.TotalPaid += paid
		rep.TotalDue += max(rep.Fee-paid, 0)
	}
	return rep, nil
}

func (b *Book) paid(regNo string) int {
	total := 0
	for _, p := range b.payments[strings.ToLower(regNo)] {
		total += p.Amount
	}
	return total
}
