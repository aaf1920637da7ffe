package exam

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mind-engage/mindengage-school/internal/roster"
)

// ExamSource is the part of the Registry the Ledger depends on.
type ExamSource interface {
	GetExam(id string) (Exam, error)
}

// Ledger stores scores keyed by exam, then student, then subject.
type Ledger struct {
	mu       sync.RWMutex
	exams    ExamSource
	students roster.Provider
	sheets   map[string]*sheet
}

type sheet struct {
	order   []string // student keys, first-recorded first
	entries map[string]*entry
}

type entry struct {
	studentID string
	scores    map[string]int
}

func NewLedger(exams ExamSource, students roster.Provider) *Ledger {
	return &Ledger{exams: exams, students: students, sheets: map[string]*sheet{}}
}

// RecordMarks validates a full batch of raw scores for one student and merges
// it into that student's entry. Nothing is written unless every score is valid.
func (l *Ledger) RecordMarks(ctx context.Context, examID, studentID string, scores map[string]string) (map[string]int, error) {
	ex, err := l.exams.GetExam(examID)
	if err != nil {
		return nil, err
	}
	st, err := l.students.Resolve(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st.Grade != ex.Grade {
		return nil, fmt.Errorf("%w: student %s is in %s, exam %s is for %s",
			ErrGradeMismatch, st.RegNo, st.Grade, ex.ID, ex.Grade)
	}
	batch, err := validateBatch(ex, scores)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	sh, ok := l.sheets[ex.ID]
	if !ok {
		sh = &sheet{entries: map[string]*entry{}}
		l.sheets[ex.ID] = sh
	}
	k := studentKey(st.RegNo)
	en, ok := sh.entries[k]
	if !ok {
		en = &entry{studentID: st.RegNo, scores: map[string]int{}}
		sh.entries[k] = en
		sh.order = append(sh.order, k)
	}
	for subj, v := range batch {
		en.scores[subj] = v
	}
	return copyScores(en.scores), nil
}

// GetMarks returns the recorded scores for one student in one exam, or an
// empty map when nothing is recorded.
func (l *Ledger) GetMarks(examID, studentID string) map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sh, ok := l.sheets[strings.ToUpper(strings.TrimSpace(examID))]
	if !ok {
		return map[string]int{}
	}
	en, ok := sh.entries[studentKey(studentID)]
	if !ok {
		return map[string]int{}
	}
	return copyScores(en.scores)
}

// Sheet returns a consistent copy of every entry recorded for an exam.
func (l *Ledger) Sheet(examID string) (Sheet, error) {
	ex, err := l.exams.GetExam(examID)
	if err != nil {
		return Sheet{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := Sheet{Exam: ex, Entries: []Entry{}}
	sh, ok := l.sheets[ex.ID]
	if !ok {
		return out, nil
	}
	for _, k := range sh.order {
		en := sh.entries[k]
		out.Entries = append(out.Entries, Entry{StudentID: en.studentID, Scores: copyScores(en.scores)})
	}
	return out, nil
}

// StudentMarks returns the student's scores for every exam that has an
// entry for them, keyed by exam id.
func (l *Ledger) StudentMarks(studentID string) map[string]map[string]int {
	k := studentKey(studentID)
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := map[string]map[string]int{}
	for examID, sh := range l.sheets {
		if en, ok := sh.entries[k]; ok {
			out[examID] = copyScores(en.scores)
		}
	}
	return out
}

func validateBatch(ex Exam, raw map[string]string) (map[string]int, error) {
	supplied := make(map[string]string, len(raw))
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		subj, ok := roster.CatalogSubject(name)
		if !ok || !ex.HasSubject(subj) {
			return nil, &SubjectError{Subject: name, Reason: "not part of exam " + ex.ID}
		}
		if _, dup := supplied[subj]; dup {
			return nil, &SubjectError{Subject: name, Reason: "supplied more than once"}
		}
		supplied[subj] = raw[name]
	}

	out := make(map[string]int, len(ex.Subjects))
	for _, subj := range ex.Subjects {
		v, ok := supplied[subj]
		if !ok {
			return nil, &ScoreError{Subject: subj, Missing: true}
		}
		n, ok := parseScore(v)
		if !ok {
			return nil, &ScoreError{Subject: subj, Raw: v}
		}
		out[subj] = n
	}
	return out, nil
}

// parseScore accepts only plain digits in the range 0..100.
func parseScore(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > 100 {
		return 0, false
	}
	return n, true
}

func studentKey(id string) string { return strings.ToLower(strings.TrimSpace(id)) }

func copyScores(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
