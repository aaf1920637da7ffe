package timetable

import (
	"errors"
	"strings"
	"testing"

	"github.com/mind-engage/mindengage-school/internal/roster"
)

func week(subject string) map[string][]string {
	w := map[string][]string{}
	for _, d := range Weekdays {
		row := make([]string, PeriodsPerDay)
		for i := range row {
			row[i] = subject
		}
		w[strings.ToLower(d)] = row
	}
	return w
}

func TestSet_ValidatesAndNormalizes(t *testing.T) {
	b := NewBook()
	tt, err := b.Set("7", week("maths"))
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if tt.Grade != "Class 7" || len(tt.Rows) != 5 || tt.Rows[0].Day != "Monday" || tt.Rows[4].Periods[6] != "Maths" {
		t.Fatalf("unexpected timetable: %+v", tt)
	}

	short := week("Tamil")
	short["monday"] = short["monday"][:6]
	missing := week("Tamil")
	delete(missing, "friday")
	bad := week("Tamil")
	bad["tuesday"][2] = "Art"
	blank := week("Tamil")
	blank["tuesday"][0] = " "
	extra := week("Tamil")
	extra["Saturday"] = extra["monday"]
	cases := []struct {
		name string
		week map[string][]string
		want error
	}{
		{"short day", short, ErrInvalidPeriod},
		{"missing day", missing, ErrInvalidDay},
		{"unknown subject", bad, ErrInvalidSubject},
		{"blank subject", blank, ErrInvalidSubject},
		{"weekend", extra, ErrInvalidDay},
	}
	for _, tc := range cases {
		if _, err := b.Set("8", tc.week); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if _, err := b.Set("13", week("Tamil")); !errors.Is(err, roster.ErrInvalidGrade) {
		t.Fatalf("expected ErrInvalidGrade, got %v", err)
	}
	if got := b.Classes(); len(got) != 1 || got[0] != "Class 7" {
		t.Fatalf("rejected timetables must not be stored: %v", got)
	}
}

func TestSetPeriod(t *testing.T) {
	b := NewBook()
	if _, err := b.Set("Class 7", week("Tamil")); err != nil {
		t.Fatal(err)
	}
	tt, err := b.SetPeriod("7", "wednesday", 3, "science")
	if err != nil {
		t.Fatalf("set period: %v", err)
	}
	if tt.Rows[2].Periods[2] != "Science" || tt.Rows[2].Periods[1] != "Tamil" {
		t.Fatalf("unexpected row: %+v", tt.Rows[2])
	}
	if _, err := b.SetPeriod("7", "Monday", 8, "Tamil"); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
	if _, err := b.SetPeriod("7", "Sunday", 1, "Tamil"); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay, got %v", err)
	}
	if _, err := b.SetPeriod("7", "Monday", 1, "Art"); !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("expected ErrInvalidSubject, got %v", err)
	}
	if _, err := b.SetPeriod("9", "Monday", 1, "Tamil"); !errors.Is(err, ErrNoTimetable) {
		t.Fatalf("expected ErrNoTimetable, got %v", err)
	}
}

func TestRemovals(t *testing.T) {
	b := NewBook()
	if _, err := b.Set("7", week("English")); err != nil {
		t.Fatal(err)
	}
	tt, err := b.ClearDay("7", "Tuesday")
	if err != nil || strings.Join(tt.Rows[1].Periods, "") != strings.Repeat(Empty, PeriodsPerDay) {
		t.Fatalf("clear day: %+v %v", tt.Rows[1], err)
	}
	tt, err = b.RemoveDay("7", "friday")
	if err != nil || len(tt.Missing) != 1 || tt.Missing[0] != "Friday" || tt.Rows[4].Periods[0] != Empty {
		t.Fatalf("remove day: %+v %v", tt, err)
	}
	if _, err := b.SetPeriod("7", "Friday", 1, "Tamil"); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("removed day must not be editable, got %v", err)
	}
	tt, err = b.ClearAll("7")
	if err != nil || tt.Rows[0].Periods[0] != Empty || len(tt.Missing) != 1 {
		t.Fatalf("clear all: %+v %v", tt, err)
	}
	if _, err := b.SetPeriod("7", "Monday", 1, "Tamil"); err != nil {
		t.Fatalf("cleared day stays editable: %v", err)
	}
	if err := b.Remove("Class 7"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := b.Get("7"); !errors.Is(err, ErrNoTimetable) {
		t.Fatalf("expected ErrNoTimetable, got %v", err)
	}
	if err := b.Remove("7"); !errors.Is(err, ErrNoTimetable) {
		t.Fatalf("expected ErrNoTimetable, got %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	b := NewBook()
	if _, err := b.Set("7", week("Maths")); err != nil {
		t.Fatal(err)
	}
	tt, _ := b.Get("7")
	tt.Rows[0].Periods[0] = "mutated"
	if again, _ := b.Get("7"); again.Rows[0].Periods[0] != "Maths" {
		t.Fatalf("Get must return a copy")
	}
	if len(Periods) != PeriodsPerDay || Periods[4].Start != "13:45" {
		t.Fatalf("unexpected period timings: %+v", Periods)
	}
}
