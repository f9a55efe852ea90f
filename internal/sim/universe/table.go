// Package universe stores named, mutually-referencing objects behind
// generation-checked handles with fallible shared/exclusive borrowing.
//
// A Table is owned by a single writer; borrow state exists to detect
// conflicting re-entrant access, not to synchronize goroutines.
package universe

import (
	"fmt"
	"sort"
)

type slot[T any] struct {
	value *T
	name  Name
	gen   uint32
	live  bool

	shared    int
	exclusive bool
}

// Table is an arena of *T addressed by URef[T].
type Table[T any] struct {
	slots    []*slot[T]
	free     []int
	byName   map[Name]int
	nextAnon uint64
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{byName: map[Name]int{}}
}

// Insert stores v under name. Anonymous names are accepted so that imported
// objects keep their identity; later InsertAnonymous calls never reuse them.
func (t *Table[T]) Insert(name Name, v *T) (URef[T], error) {
	if v == nil {
		return URef[T]{}, fmt.Errorf("insert %s: nil value", name)
	}
	if _, ok := t.byName[name]; ok {
		return URef[T]{}, fmt.Errorf("insert %s: %w", name, ErrNameTaken)
	}
	if name.IsAnonymous() && name.Anon >= t.nextAnon {
		t.nextAnon = name.Anon + 1
	}

	var idx int
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = len(t.slots)
		t.slots = append(t.slots, &slot[T]{})
	}
	s := t.slots[idx]
	s.value = v
	s.name = name
	s.live = true
	s.shared = 0
	s.exclusive = false
	t.byName[name] = idx
	return URef[T]{table: t, index: idx, gen: s.gen, name: name}, nil
}

func (t *Table[T]) InsertAnonymous(v *T) URef[T] {
	name := Anonym(t.nextAnon)
	r, err := t.Insert(name, v)
	if err != nil {
		// nextAnon is always past every anonymous name in the table.
		panic(err)
	}
	return r
}

func (t *Table[T]) Get(name Name) (URef[T], bool) {
	idx, ok := t.byName[name]
	if !ok {
		return URef[T]{}, false
	}
	s := t.slots[idx]
	return URef[T]{table: t, index: idx, gen: s.gen, name: name}, true
}

// Delete removes the named object. Outstanding refs start failing with
// ErrNotFound; a borrowed object cannot be deleted.
func (t *Table[T]) Delete(name Name) error {
	idx, ok := t.byName[name]
	if !ok {
		return &RefError{Name: name, Err: ErrNotFound}
	}
	s := t.slots[idx]
	if s.exclusive || s.shared > 0 {
		return &RefError{Name: name, Err: ErrInUse}
	}
	delete(t.byName, name)
	s.value = nil
	s.live = false
	s.gen++
	t.free = append(t.free, idx)
	return nil
}

func (t *Table[T]) Len() int { return len(t.byName) }

// Names returns every name in Name.Less order.
func (t *Table[T]) Names() []Name {
	out := make([]Name, 0, len(t.byName))
	for n := range t.byName {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
