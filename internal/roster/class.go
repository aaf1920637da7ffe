package roster

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidGrade = errors.New("invalid class (must be 1..12)")

// Subjects is the fixed, ordered subject catalog used school-wide.
var Subjects = []string{"Tamil", "English", "Maths", "Science", "Social Science", "Computer Science"}

// NormalizeClass turns free-form input ("7", "Class 7", "class07") into the
// canonical "Class N" label. Every digit in the input is used, in order.
func NormalizeClass(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil || n < 1 || n > 12 {
		return "", ErrInvalidGrade
	}
	return "Class " + strconv.Itoa(n), nil
}

// CatalogSubject returns the catalog spelling of s, matched case-insensitively.
func CatalogSubject(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Subjects {
		if strings.EqualFold(c, s) {
			return c, true
		}
	}
	return "", false
}

func classNumber(label string) int {
	n, _ := strconv.Atoi(strings.TrimFunc(label, func(r rune) bool { return !unicode.IsDigit(r) }))
	return n
}

// SortClasses orders canonical class labels by class number.
func SortClasses(labels []string) {
	sort.Slice(labels, func(i, j int) bool { return classNumber(labels[i]) < classNumber(labels[j]) })
}
