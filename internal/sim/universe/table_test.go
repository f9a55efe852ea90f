package universe

import (
	"errors"
	"testing"
)

type thing struct{ v int }

func TestTable_BorrowConflicts(t *testing.T) {
	tab := NewTable[thing]()
	r, err := tab.Insert(Specific("a"), &thing{v: 1})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	w, err := r.TryBorrowMut()
	if err != nil {
		t.Fatalf("borrow mut: %v", err)
	}
	if _, err := r.TryBorrow(); !errors.Is(err, ErrInUse) {
		t.Fatalf("shared borrow during exclusive: err=%v want ErrInUse", err)
	}
	w.Release()

	g1, err := r.TryBorrow()
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	g2, err := r.TryBorrow()
	if err != nil {
		t.Fatalf("second shared borrow: %v", err)
	}
	if _, err := r.TryBorrowMut(); !errors.Is(err, ErrInUse) {
		t.Fatalf("exclusive during shared: err=%v want ErrInUse", err)
	}
	g1.Release()
	g2.Release()
	if err := r.Write(func(x *thing) error { x.v = 2; return nil }); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = r.Read(func(x *thing) error {
		if x.v != 2 {
			t.Fatalf("v=%d want=2", x.v)
		}
		return nil
	})
}

func TestTable_DeleteInvalidatesRefsAcrossReuse(t *testing.T) {
	tab := NewTable[thing]()
	old, _ := tab.Insert(Specific("a"), &thing{v: 1})
	if err := tab.Delete(Specific("a")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	fresh, _ := tab.Insert(Specific("b"), &thing{v: 2})

	_, err := old.TryBorrow()
	var re *RefError
	if !errors.As(err, &re) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("stale ref err=%v want RefError/ErrNotFound", err)
	}
	if re.Name != Specific("a") {
		t.Fatalf("error name=%v", re.Name)
	}
	if old == fresh {
		t.Fatalf("reused slot must not compare equal to stale ref")
	}
	if _, err := fresh.TryBorrow(); err != nil {
		t.Fatalf("fresh ref: %v", err)
	}
}

func TestTable_NamesAndAnonymous(t *testing.T) {
	tab := NewTable[thing]()
	if _, err := tab.Insert(Anonym(5), &thing{}); err != nil {
		t.Fatalf("insert anon: %v", err)
	}
	r := tab.InsertAnonymous(&thing{})
	if r.Name() != Anonym(6) {
		t.Fatalf("anon name=%v want #6", r.Name())
	}
	if _, err := tab.Insert(Specific("z"), &thing{}); err != nil {
		t.Fatalf("insert z: %v", err)
	}
	if _, err := tab.Insert(Specific("z"), &thing{}); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("duplicate err=%v", err)
	}
	names := tab.Names()
	if len(names) != 3 || names[0] != Specific("z") || names[1] != Anonym(5) {
		t.Fatalf("names order=%v", names)
	}
	if err := tab.Delete(Specific("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing err=%v", err)
	}
}
