package types

// Atom is a mutable, shareable cell holding one Value. Identity is
// preserved across reset!/swap!: every alias of an Atom observes the same
// updates, since aliasing just copies the pointer, never the cell.
//
// The evaluator is single-threaded and synchronous (see the concurrency
// notes in the design doc), so no internal locking is required here.
type Atom struct {
	Value Value
	Meta  Value
}

func (a *Atom) Type() ValueType { return AtomType }
func (a *Atom) Inspect() string { return "(atom " + a.Value.Inspect() + ")" }

// NewAtom wraps an initial value in a fresh Atom.
func NewAtom(v Value) *Atom { return &Atom{Value: v} }
