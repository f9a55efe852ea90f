package universe

import "fmt"

// Name identifies an object in a Table: either a caller-chosen string or a
// number handed out by InsertAnonymous.
type Name struct {
	Specific string `json:"specific,omitempty"`
	Anon     uint64 `json:"anon,omitempty"`
}

func Specific(s string) Name { return Name{Specific: s} }
func Anonym(n uint64) Name   { return Name{Anon: n} }

func (n Name) IsAnonymous() bool { return n.Specific == "" }

func (n Name) String() string {
	if n.IsAnonymous() {
		return fmt.Sprintf("[anonymous #%d]", n.Anon)
	}
	return fmt.Sprintf("%q", n.Specific)
}

// Less orders specific names before anonymous ones; used wherever iteration order
// must be deterministic.
func (n Name) Less(o Name) bool {
	if n.IsAnonymous() != o.IsAnonymous() {
		return !n.IsAnonymous()
	}
	if n.IsAnonymous() {
		return n.Anon < o.Anon
	}
	return n.Specific < o.Specific
}
