package roster

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const (
	studentsKey         = "students"  // Set: all student keys
	studentInfoPrefix   = "student:"  // Hash: student:{key} -> student fields
	classStudentsPrefix = "class:"    // Set: class:{grade}:students -> student keys
	studentSeqKey       = "students:seq"
)

// RedisStore keeps the roster in Redis hashes, one per student, with a set
// of student keys per class.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func studentInfoKey(k string) string { return studentInfoPrefix + k }

func classStudentsKey(grade string) string { return classStudentsPrefix + grade + ":students" }

func (s *RedisStore) Resolve(ctx context.Context, id string) (Student, error) {
	data, err := s.client.HGetAll(ctx, studentInfoKey(key(id))).Result()
	if err != nil {
		return Student{}, fmt.Errorf("get student from redis: %w", err)
	}
	if len(data) == 0 {
		return Student{}, ErrStudentNotFound
	}
	return studentFromHash(data), nil
}

func (s *RedisStore) Add(ctx context.Context, st Student) error {
	k := key(st.RegNo)
	// take the sequence first so nothing is left behind if it fails
	seq, err := s.client.Incr(ctx, studentSeqKey).Result()
	if err != nil {
		return fmt.Errorf("add student to redis: %w", err)
	}
	added, err := s.client.SAdd(ctx, studentsKey, k).Result()
	if err != nil {
		return fmt.Errorf("add student to redis: %w", err)
	}
	if added == 0 {
		return ErrDuplicateStudent
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, studentInfoKey(k), studentHash(st, seq))
	pipe.SAdd(ctx, classStudentsKey(st.Grade), k)
	if _, err := pipe.Exec(ctx); err != nil {
		s.client.SRem(ctx, studentsKey, k)
		return fmt.Errorf("add student to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, st Student) error {
	k := key(st.RegNo)
	old, err := s.Resolve(ctx, k)
	if err != nil {
		return err
	}
	fields := studentHash(st, 0)
	delete(fields, "seq")
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, studentInfoKey(k), fields)
	if old.Grade != st.Grade {
		pipe.SRem(ctx, classStudentsKey(old.Grade), k)
		pipe.SAdd(ctx, classStudentsKey(st.Grade), k)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update student in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, id string) error {
	k := key(id)
	old, err := s.Resolve(ctx, k)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, studentInfoKey(k))
	pipe.SRem(ctx, studentsKey, k)
	pipe.SRem(ctx, classStudentsKey(old.Grade), k)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("remove student from redis: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Student, error) {
	keys, err := s.client.SMembers(ctx, studentsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list students from redis: %w", err)
	}
	return s.load(ctx, keys)
}

func (s *RedisStore) ListByClass(ctx context.Context, grade string) ([]Student, error) {
	keys, err := s.client.SMembers(ctx, classStudentsKey(grade)).Result()
	if err != nil {
		return nil, fmt.Errorf("list class students from redis: %w", err)
	}
	return s.load(ctx, keys)
}

func (s *RedisStore) load(ctx context.Context, keys []string) ([]Student, error) {
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(keys))
	for i, k := range keys {
		cmds[i] = pipe.HGetAll(ctx, studentInfoKey(k))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("load students from redis: %w", err)
	}
	type seqStudent struct {
		seq int64
		st  Student
	}
	rows := make([]seqStudent, 0, len(cmds))
	for _, c := range cmds {
		data := c.Val()
		if len(data) == 0 {
			continue
		}
		seq, _ := strconv.ParseInt(data["seq"], 10, 64)
		rows = append(rows, seqStudent{seq: seq, st: studentFromHash(data)})
	}
	// sets are unordered; restore insertion order
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]Student, len(rows))
	for i, r := range rows {
		out[i] = r.st
	}
	return out, nil
}

func studentHash(st Student, seq int64) map[string]interface{} {
	return map[string]interface{}{
		"reg_no": st.RegNo,
		"name":   st.Name,
		"grade":  st.Grade,
		"age":    st.Age,
		"gender": st.Gender,
		"email":  st.Email,
		"phone":  st.Phone,
		"seq":    seq,
	}
}

func studentFromHash(data map[string]string) Student {
	age, _ := strconv.Atoi(data["age"])
	return Student{
		RegNo:  data["reg_no"],
		Name:   data["name"],
		Grade:  data["grade"],
		Age:    age,
		Gender: data["gender"],
		Email:  data["email"],
		Phone:  data["phone"],
	}
}
