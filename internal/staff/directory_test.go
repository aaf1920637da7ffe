package staff

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func add(t *testing.T, d *Directory, name string) Teacher {
	t.Helper()
	tc, err := d.Add(TeacherInput{Name: name, Experience: "5", Qualifications: " M.Sc "})
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return tc
}

func TestDirectory_AddSequentialIDs(t *testing.T) {
	d := NewDirectory()
	a := add(t, d, "Meena")
	b := add(t, d, "Ravi Kumar")
	if a.ID != "T001" || b.ID != "T002" || a.Qualifications != "M.Sc" || a.Experience != 5 {
		t.Fatalf("unexpected teachers: %+v %+v", a, b)
	}
	if err := d.Remove("t002"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if c := add(t, d, "Selvi"); c.ID != "T003" {
		t.Fatalf("ids must not be reused, got %s", c.ID)
	}
	if l := d.List(); len(l) != 2 || l[0].ID != "T001" || l[1].ID != "T003" {
		t.Fatalf("unexpected list: %+v", l)
	}
}

func TestDirectory_AddRejects(t *testing.T) {
	d := NewDirectory()
	cases := []TeacherInput{
		{Name: "R2D2", Experience: "3"},
		{Name: " ", Experience: "3"},
		{Name: "Meena", Experience: "-1"},
		{Name: "Meena", Experience: "three"},
		{Name: "Meena", Experience: ""},
	}
	for _, in := range cases {
		if _, err := d.Add(in); !errors.Is(err, ErrInvalidTeacher) {
			t.Errorf("%+v: expected ErrInvalidTeacher, got %v", in, err)
		}
	}
	if len(d.List()) != 0 {
		t.Fatalf("rejected teachers must not be stored")
	}
	if tc := add(t, d, "Meena"); tc.ID != "T001" {
		t.Fatalf("rejections must not consume ids, got %s", tc.ID)
	}
}

func TestDirectory_Update(t *testing.T) {
	d := NewDirectory()
	add(t, d, "Meena")
	exp, bad := "12", "x1"
	got, err := d.Update("t001", TeacherPatch{Experience: &exp})
	if err != nil || got.Experience != 12 || got.Name != "Meena" {
		t.Fatalf("unexpected update: %+v %v", got, err)
	}
	name := "Meena S"
	if _, err := d.Update("T001", TeacherPatch{Name: &name, Experience: &bad}); !errors.Is(err, ErrInvalidTeacher) {
		t.Fatalf("expected ErrInvalidTeacher, got %v", err)
	}
	if cur, _ := d.Get("T001"); cur.Name != "Meena" {
		t.Fatalf("failed update must not change the name: %+v", cur)
	}
	if _, err := d.Update("T404", TeacherPatch{Name: &name}); !errors.Is(err, ErrTeacherNotFound) {
		t.Fatalf("expected ErrTeacherNotFound, got %v", err)
	}
}

func TestDirectory_AssignAndBySubject(t *testing.T) {
	d := NewDirectory()
	add(t, d, "Meena")
	add(t, d, "Ravi")
	if _, err := d.Assign("T001", "maths"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := d.Assign("T002", "Maths"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := d.Assign("T001", "MATHS"); !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
	if _, err := d.Assign("T001", "Art"); !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("expected ErrInvalidSubject, got %v", err)
	}
	if _, err := d.Assign("T009", "Tamil"); !errors.Is(err, ErrTeacherNotFound) {
		t.Fatalf("expected ErrTeacherNotFound, got %v", err)
	}
	tc, _ := d.Get("T001")
	if fmt.Sprint(tc.Subjects) != "[Maths]" {
		t.Fatalf("expected catalog spelling, got %v", tc.Subjects)
	}
	tc.Subjects[0] = "mutated"
	if again, _ := d.Get("T001"); again.Subjects[0] != "Maths" {
		t.Fatalf("Get must return a copy")
	}

	view := d.BySubject()
	if len(view) != 6 || view[0].Subject != "Tamil" || len(view[0].Teachers) != 0 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view[2].Subject != "Maths" || len(view[2].Teachers) != 2 || view[2].Teachers[1] != (TeacherRef{ID: "T002", Name: "Ravi"}) {
		t.Fatalf("unexpected Maths teachers: %+v", view[2])
	}
}

func TestDirectory_ConcurrentAdd(t *testing.T) {
	d := NewDirectory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.Add(TeacherInput{Name: "Meena", Experience: "1"})
		}()
	}
	wg.Wait()
	seen := map[string]bool{}
	for _, tc := range d.List() {
		if seen[tc.ID] {
			t.Fatalf("duplicate id %s", tc.ID)
		}
		seen[tc.ID] = true
	}
	if len(seen) != 50 {
		t.Fatalf("expected 50 teachers, got %d", len(seen))
	}
}
