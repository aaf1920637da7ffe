package roster

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore keeps the roster in the students table created by db.Open.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Resolve(ctx context.Context, id string) (Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT reg_no,name,grade,age,gender,email,phone FROM students WHERE reg_key=$1`, key(id))
	var st Student
	if err := row.Scan(&st.RegNo, &st.Name, &st.Grade, &st.Age, &st.Gender, &st.Email, &st.Phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, ErrStudentNotFound
		}
		return Student{}, err
	}
	return st, nil
}

// Add inserts st; a concurrent insert of the same register number loses
// with ErrDuplicateStudent rather than a constraint error.
func (s *SQLStore) Add(ctx context.Context, st Student) error {
	res, err := s.db.ExecContext(ctx, `INSERT INTO students (reg_key,reg_no,name,grade,age,gender,email,phone,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (reg_key) DO NOTHING`,
		key(st.RegNo), st.RegNo, st.Name, st.Grade, st.Age, st.Gender, st.Email, st.Phone, time.Now().UnixNano())
	if err != nil {
		return err
	}
	return expectOne(res, ErrDuplicateStudent)
}

func (s *SQLStore) Update(ctx context.Context, st Student) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE students SET name=$1, grade=$2, age=$3, gender=$4, email=$5, phone=$6 WHERE reg_key=$7`,
		st.Name, st.Grade, st.Age, st.Gender, st.Email, st.Phone, key(st.RegNo))
	if err != nil {
		return err
	}
	return expectOne(res, ErrStudentNotFound)
}

func (s *SQLStore) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE reg_key=$1`, key(id))
	if err != nil {
		return err
	}
	return expectOne(res, ErrStudentNotFound)
}

func expectOne(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return none
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]Student, error) {
	return s.query(ctx, `SELECT reg_no,name,grade,age,gender,email,phone FROM students ORDER BY created_at, reg_key`)
}

func (s *SQLStore) ListByClass(ctx context.Context, grade string) ([]Student, error) {
	return s.query(ctx, `SELECT reg_no,name,grade,age,gender,email,phone FROM students WHERE grade=$1 ORDER BY created_at, reg_key`, grade)
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Student{}
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.RegNo, &st.Name, &st.Grade, &st.Age, &st.Gender, &st.Email, &st.Phone); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
