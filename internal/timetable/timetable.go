// Package timetable holds one weekly timetable per class: five weekdays of
// seven periods, each period a catalog subject or "-" when emptied.
package timetable

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mind-engage/mindengage-school/internal/roster"
)

const (
	PeriodsPerDay = 7
	Empty         = "-"
)

var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

var (
	ErrNoTimetable    = errors.New("no timetable for class")
	ErrInvalidDay     = errors.New("invalid day")
	ErrInvalidPeriod  = errors.New("invalid period number (must be 1..7)")
	ErrInvalidSubject = errors.New("invalid subject")
)

type Slot struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Periods are the bell timings shared by every class.
var Periods = []Slot{
	{"Period 1", "09:15", "10:00"},
	{"Period 2", "10:00", "10:45"},
	{"Period 3", "11:00", "11:45"},
	{"Period 4", "11:45", "12:30"},
	{"Period 5", "13:45", "14:30"},
	{"Period 6", "14:30", "15:15"},
	{"Period 7", "15:30", "16:15"},
}

var Breaks = []Slot{
	{"Morning break", "10:45", "11:00"},
	{"Lunch", "12:30", "13:45"},
	{"Evening break", "15:15", "15:30"},
}

type Row struct {
	Day     string   `json:"day"`
	Periods []string `json:"periods"`
}

// Timetable is the rendered week of one class. Removed days are rendered
// as "-" rows and listed in Missing; they cannot be edited until the week
// is set again.
type Timetable struct {
	Grade string `json:"grade"`
	Rows  []Row  `json:"rows"`
	Missing []string `json:"missing,omitempty"`
}

// Book keeps timetables keyed by canonical class label.
type Book struct {
	mu     sync.RWMutex
	tables map[string]map[string][]string // grade -> day -> periods
}

func NewBook() *Book {
	return &Book{tables: map[string]map[string][]string{}}
}

// Set replaces the class timetable. week must name all five weekdays with
// seven periods each; subjects are matched against the catalog.
func (b *Book) Set(grade string, week map[string][]string) (Timetable, error) {
	g, err := roster.NormalizeClass(grade)
	if err != nil {
		return Timetable{}, err
	}
	days := make(map[string][]string, len(Weekdays))
	for rawDay, periods := range week {
		day, ok := weekday(rawDay)
		if !ok {
			return Timetable{}, fmt.Errorf("%w %q", ErrInvalidDay, rawDay)
		}
		if len(periods) != PeriodsPerDay {
			return Timetable{}, fmt.Errorf("%w: %s has %d periods", ErrInvalidPeriod, day, len(periods))
		}
		row := make([]string, PeriodsPerDay)
		for i, p := range periods {
			subj, ok := roster.CatalogSubject(p)
			if !ok {
				return Timetable{}, fmt.Errorf("%w %q on %s period %d", ErrInvalidSubject, strings.TrimSpace(p), day, i+1)
			}
			row[i] = subj
		}
		days[day] = row
	}
	for _, d := range Weekdays {
		if _, ok := days[d]; !ok {
			return Timetable{}, fmt.Errorf("%w: %s missing", ErrInvalidDay, d)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[g] = days
	return render(g, days), nil
}

func (b *Book) Get(grade string) (Timetable, error) {
	g, err := roster.NormalizeClass(grade)
	if err != nil {
		return Timetable{}, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	days, ok := b.tables[g]
	if !ok {
		return Timetable{}, ErrNoTimetable
	}
	return render(g, days), nil
}

// Classes returns the labels of classes with a timetable.
func (b *Book) Classes() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.tables))
	for g := range b.tables {
		out = append(out, g)
	}
	roster.SortClasses(out)
	return out
}

// SetPeriod changes one period of a day still present in the timetable.
func (b *Book) SetPeriod(grade, day string, period int, subject string) (Timetable, error) {
	subj, ok := roster.CatalogSubject(subject)
	if !ok {
		return Timetable{}, fmt.Errorf("%w %q", ErrInvalidSubject, strings.TrimSpace(subject))
	}
	if period < 1 || period > PeriodsPerDay {
		return Timetable{}, ErrInvalidPeriod
	}
	return b.edit(grade, day, func(row []string) []string {
		row[period-1] = subj
		return row
	})
}

// ClearDay sets every period of the day to "-".
func (b *Book) ClearDay(grade, day string) (Timetable, error) {
	return b.edit(grade, day, func([]string) []string { return emptyRow() })
}

// RemoveDay drops the day's row from the timetable.
func (b *Book) RemoveDay(grade, day string) (Timetable, error) {
	return b.edit(grade, day, func([]string) []string { return nil })
}

// ClearAll empties every remaining day, keeping the days themselves.
func (b *Book) ClearAll(grade string) (Timetable, error) {
	g, err := roster.NormalizeClass(grade)
	if err != nil {
		return Timetable{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	days, ok := b.tables[g]
	if !ok {
		return Timetable{}, ErrNoTimetable
	}
	for d := range days {
		days[d] = emptyRow()
	}
	return render(g, days), nil
}

func (b *Book) Remove(grade string) error {
	g, err := roster.NormalizeClass(grade)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tables[g]; !ok {
		return ErrNoTimetable
	}
	delete(b.tables, g)
	return nil
}

// edit applies fn to a day's row; a nil result removes the day.
func (b *Book) edit(grade, rawDay string, fn func([]string) []string) (Timetable, error) {
	g, err := roster.NormalizeClass(grade)
	if err != nil {
		return Timetable{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	days, ok := b.tables[g]
	if !ok {
		return Timetable{}, ErrNoTimetable
	}
	day, ok := weekday(rawDay)
	if !ok {
		return Timetable{}, fmt.Errorf("%w %q", ErrInvalidDay, rawDay)
	}
	row, ok := days[day]
	if !ok {
		return Timetable{}, fmt.Errorf("%w: %s is not in the timetable", ErrInvalidDay, day)
	}
	if next := fn(row); next == nil {
		delete(days, day)
	} else {
		days[day] = next
	}
	return render(g, days), nil
}

func render(grade string, days map[string][]string) Timetable {
	t := Timetable{Grade: grade, Rows: make([]Row, 0, len(Weekdays))}
	for _, d := range Weekdays {
		row, ok := days[d]
		if !ok {
			row = emptyRow()
			t.Missing = append(t.Missing, d)
		}
		t.Rows = append(t.Rows, Row{Day: d, Periods: append([]string(nil), row...)})
	}
	return t
}

func emptyRow() []string {
	row := make([]string, PeriodsPerDay)
	for i := range row {
		row[i] = Empty
	}
	return row
}

func weekday(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, d := range Weekdays {
		if strings.EqualFold(d, s) {
			return d, true
		}
	}
	return "", false
}
