package roster

import (
	"context"
	"sync"
)

// Memory is the in-process roster. Students keep their insertion order.
type Memory struct {
	mu    sync.RWMutex
	order []string
	byKey map[string]Student
}

func NewMemory(students ...Student) *Memory {
	m := &Memory{byKey: map[string]Student{}}
	for _, s := range students {
		_ = m.Add(context.Background(), s)
	}
	return m
}

func (m *Memory) Resolve(_ context.Context, id string) (Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byKey[key(id)]
	if !ok {
		return Student{}, ErrStudentNotFound
	}
	return s, nil
}

func (m *Memory) Add(_ context.Context, s Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(s.RegNo)
	if _, ok := m.byKey[k]; ok {
		return ErrDuplicateStudent
	}
	m.byKey[k] = s
	m.order = append(m.order, k)
	return nil
}

func (m *Memory) Update(_ context.Context, s Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(s.RegNo)
	if _, ok := m.byKey[k]; !ok {
		return ErrStudentNotFound
	}
	m.byKey[k] = s
	return nil
}

func (m *Memory) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(id)
	if _, ok := m.byKey[k]; !ok {
		return ErrStudentNotFound
	}
	delete(m.byKey, k)
	for i, o := range m.order {
		if o == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) List(_ context.Context) ([]Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Student, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.byKey[k])
	}
	return out, nil
}

func (m *Memory) ListByClass(ctx context.Context, grade string) ([]Student, error) {
	all, _ := m.List(ctx)
	out := all[:0]
	for _, s := range all {
		if s.Grade == grade {
			out = append(out, s)
		}
	}
	return out, nil
}
