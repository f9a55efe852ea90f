package universe

// URef is a handle to an object in a Table. It is comparable, so values
// containing it (blocks) keep structural equality.
type URef[T any] struct {
	table *Table[T]
	index int
	gen   uint32
	name  Name
}

func (r URef[T]) Name() Name   { return r.name }
func (r URef[T]) IsZero() bool { return r.table == nil }

func (r URef[T]) resolve() (*slot[T], error) {
	if r.table == nil || r.index >= len(r.table.slots) {
		return nil, &RefError{Name: r.name, Err: ErrNotFound}
	}
	s := r.table.slots[r.index]
	if !s.live || s.gen != r.gen {
		return nil, &RefError{Name: r.name, Err: ErrNotFound}
	}
	return s, nil
}

// ReadGuard is a shared borrow; call Release exactly once.
type ReadGuard[T any] struct {
	s *slot[T]
}

func (g *ReadGuard[T]) Get() *T { return g.s.value }

func (g *ReadGuard[T]) Release() {
	if g.s != nil {
		g.s.shared--
		g.s = nil
	}
}

// WriteGuard is an exclusive borrow; call Release exactly once.
type WriteGuard[T any] struct {
	s *slot[T]
}

func (g *WriteGuard[T]) Get() *T { return g.s.value }

func (g *WriteGuard[T]) Release() {
	if g.s != nil {
		g.s.exclusive = false
		g.s = nil
	}
}

// TryBorrow takes shared access. It fails with ErrInUse while an exclusive
// borrow is outstanding.
func (r URef[T]) TryBorrow() (*ReadGuard[T], error) {
	s, err := r.resolve()
	if err != nil {
		return nil, err
	}
	if s.exclusive {
		return nil, &RefError{Name: r.name, Err: ErrInUse}
	}
	s.shared++
	return &ReadGuard[T]{s: s}, nil
}

// TryBorrowMut takes exclusive access. It fails with ErrInUse while any other
// borrow is outstanding.
func (r URef[T]) TryBorrowMut() (*WriteGuard[T], error) {
	s, err := r.resolve()
	if err != nil {
		return nil, err
	}
	if s.exclusive || s.shared > 0 {
		return nil, &RefError{Name: r.name, Err: ErrInUse}
	}
	s.exclusive = true
	return &WriteGuard[T]{s: s}, nil
}

// Read runs fn under a shared borrow.
func (r URef[T]) Read(fn func(*T) error) error {
	g, err := r.TryBorrow()
	if err != nil {
		return err
	}
	defer g.Release()
	return fn(g.Get())
}

// Write runs fn under an exclusive borrow.
func (r URef[T]) Write(fn func(*T) error) error {
	g, err := r.TryBorrowMut()
	if err != nil {
		return err
	}
	defer g.Release()
	return fn(g.Get())
}
