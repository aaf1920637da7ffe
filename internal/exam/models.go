package exam

// Exam is immutable once created by the Registry.
type Exam struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Grade    string   `json:"grade"`
	Subjects []string `json:"subjects"`
	Date     string   `json:"date"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

func (e Exam) HasSubject(s string) bool {
	for _, x := range e.Subjects {
		if x == s {
			return true
		}
	}
	return false
}

func (e Exam) clone() Exam {
	e.Subjects = append([]string(nil), e.Subjects...)
	return e
}

// Entry is one student's recorded scores for an exam. Subjects without a
// score have not been graded yet.
type Entry struct {
	StudentID string         `json:"student_id"`
	Scores    map[string]int `json:"scores"`
}

// Sheet is a point-in-time copy of every entry recorded for one exam,
// ordered by when each student was first recorded.
type Sheet struct {
	Exam    Exam    `json:"exam"`
	Entries []Entry `json:"entries"`
}
