package universe

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the referenced object was deleted (or never existed).
	ErrNotFound = errors.New("object not found")
	// ErrInUse: the object is exclusively borrowed, or shared-borrowed when
	// exclusive access was requested.
	ErrInUse = errors.New("object in use")
	// ErrNameTaken is returned by Insert for a duplicate name.
	ErrNameTaken = errors.New("name already in use")
	// ErrCycle: following references leads back to where it started.
	ErrCycle = errors.New("reference cycle")
)

// RefError is the failure of dereferencing a URef.
type RefError struct {
	Name Name
	Err  error
}

func (e *RefError) Error() string {
	return fmt.Sprintf("ref %s: %v", e.Name, e.Err)
}

func (e *RefError) Unwrap() error { return e.Err }
