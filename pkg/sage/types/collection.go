package types

import "fmt"

// List is an ordered, shareable sequence evaluated as a call unless its
// head symbol names a special form.
type List struct {
	Items []Value
	Meta  Value
}

func (l *List) Type() ValueType { return ListType }
func (l *List) Inspect() string { return inspectSeq("(", l.Items, ")") }

// NewList builds a List from the given elements.
func NewList(items ...Value) *List { return &List{Items: items} }

// Vector is an ordered, shareable sequence that always self-evaluates
// elementwise, regardless of its head element.
type Vector struct {
	Items []Value
	Meta  Value
}

func (v *Vector) Type() ValueType { return VectorType }
func (v *Vector) Inspect() string { return inspectSeq("[", v.Items, "]") }

// NewVector builds a Vector from the given elements.
func NewVector(items ...Value) *Vector { return &Vector{Items: items} }

func inspectSeq(open string, items []Value, close string) string {
	s := open
	for i, it := range items {
		if i > 0 {
			s += " "
		}
		s += it.Inspect()
	}
	return s + close
}

// Seq is implemented by List and Vector: both are ordered sequences whose
// elements are exposed uniformly for iteration-oriented builtins.
type Seq interface {
	Value
	Elements() []Value
}

func (l *List) Elements() []Value   { return l.Items }
func (v *Vector) Elements() []Value { return v.Items }

// IsSeq reports whether v is a List or Vector.
func IsSeq(v Value) bool {
	_, ok := v.(Seq)
	return ok
}

// MapKey is the restricted, hashable/comparable subset of Value usable as a
// map key: string, symbol, keyword, number, true, false. It's a plain Go
// string so it can key a native map directly; NewMapKey folds each eligible
// Value variant into a collision-free encoding, tagging everything except
// Keyword (whose sentinel-prefixed Name already disambiguates it from a
// same-spelled String).
type MapKey string

// NewMapKey encodes v as a MapKey, or reports an error if v's variant
// cannot be used as a map key (composite values: List, Vector, Map, ...).
func NewMapKey(v Value) (MapKey, error) {
	switch t := v.(type) {
	case *String:
		return MapKey("s" + t.Value), nil
	case *Keyword:
		return MapKey(t.Name), nil
	case *Symbol:
		return MapKey("y" + t.Name), nil
	case *Number:
		return MapKey(fmt.Sprintf("n%d", t.Value)), nil
	case *Boolean:
		if t.Value {
			return MapKey("true"), nil
		}
		return MapKey("false"), nil
	default:
		return "", fmt.Errorf("value of type %s cannot be used as a map key", v.Type())
	}
}

// mapEntry keeps the original key Value alongside its mapped value so that
// keys/vals can reconstruct the key a caller passed to assoc.
type mapEntry struct {
	key Value
	val Value
}

// Map is a mapping from MapKey to Value that preserves insertion order for
// deterministic printing; structural equality ignores order entirely.
type Map struct {
	order []MapKey
	data  map[MapKey]*mapEntry
	Meta  Value
}

func (m *Map) Type() ValueType { return MapType }

func (m *Map) Inspect() string {
	s := "{"
	for i, k := range m.order {
		if i > 0 {
			s += " "
		}
		e := m.data[k]
		s += e.key.Inspect() + " " + e.val.Inspect()
	}
	return s + "}"
}

// NewMap builds an empty Map.
func NewMap() *Map {
	return &Map{data: make(map[MapKey]*mapEntry)}
}

// Len returns the number of entries in the map.
func (m *Map) Len() int { return len(m.order) }

// Get looks up key, returning (value, true) if present.
func (m *Map) Get(key Value) (Value, bool, error) {
	mk, err := NewMapKey(key)
	if err != nil {
		return nil, false, err
	}
	e, ok := m.data[mk]
	if !ok {
		return nil, false, nil
	}
	return e.val, true, nil
}

// Has reports whether key is present in the map.
func (m *Map) Has(key Value) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}

// Assoc returns a new Map with key bound to val, leaving the receiver
// untouched (maps are logically immutable after construction).
func (m *Map) Assoc(key, val Value) (*Map, error) {
	mk, err := NewMapKey(key)
	if err != nil {
		return nil, err
	}
	out := m.clone()
	if _, exists := out.data[mk]; !exists {
		out.order = append(out.order, mk)
	}
	out.data[mk] = &mapEntry{key: key, val: val}
	return out, nil
}

// Dissoc returns a new Map with key removed, if present.
func (m *Map) Dissoc(key Value) (*Map, error) {
	mk, err := NewMapKey(key)
	if err != nil {
		return nil, err
	}
	out := m.clone()
	if _, exists := out.data[mk]; exists {
		delete(out.data, mk)
		for i, k := range out.order {
			if k == mk {
				out.order = append(out.order[:i], out.order[i+1:]...)
				break
			}
		}
	}
	return out, nil
}

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []Value {
	out := make([]Value, len(m.order))
	for i, k := range m.order {
		out[i] = m.data[k].key
	}
	return out
}

// Vals returns the map's values in insertion order.
func (m *Map) Vals() []Value {
	out := make([]Value, len(m.order))
	for i, k := range m.order {
		out[i] = m.data[k].val
	}
	return out
}

func (m *Map) clone() *Map {
	out := &Map{
		order: make([]MapKey, len(m.order)),
		data:  make(map[MapKey]*mapEntry, len(m.data)),
		Meta:  m.Meta,
	}
	copy(out.order, m.order)
	for k, v := range m.data {
		out.data[k] = v
	}
	return out
}

// MapFromPairs builds a Map from a flat key/value slice, erroring if the
// slice has odd length or contains an ineligible key.
func MapFromPairs(pairs []Value) (*Map, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("hash-map requires an even number of arguments")
	}
	m := NewMap()
	var err error
	for i := 0; i < len(pairs); i += 2 {
		m, err = m.Assoc(pairs[i], pairs[i+1])
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Equal implements the structural-equality invariant: sequences compare
// elementwise regardless of List/Vector kind, maps compare by key/value
// set, and closures/native functions are never equal.
func Equal(a, b Value) bool {
	aSeq, aIsSeq := a.(Seq)
	bSeq, bIsSeq := b.(Seq)
	if aIsSeq && bIsSeq {
		ae, be := aSeq.Elements(), bSeq.Elements()
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !Equal(ae[i], be[i]) {
				return false
			}
		}
		return true
	}
	if aIsSeq != bIsSeq {
		return false
	}

	switch at := a.(type) {
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Boolean:
		bt, ok := b.(*Boolean)
		return ok && at.Value == bt.Value
	case *Number:
		bt, ok := b.(*Number)
		return ok && at.Value == bt.Value
	case *String:
		bt, ok := b.(*String)
		return ok && at.Value == bt.Value
	case *Symbol:
		bt, ok := b.(*Symbol)
		return ok && at.Name == bt.Name
	case *Keyword:
		bt, ok := b.(*Keyword)
		return ok && at.Name == bt.Name
	case *Map:
		bt, ok := b.(*Map)
		if !ok || at.Len() != bt.Len() {
			return false
		}
		for _, k := range at.order {
			ea := at.data[k]
			eb, ok := bt.data[k]
			if !ok || !Equal(ea.val, eb.val) {
				return false
			}
		}
		return true
	case *Atom:
		bt, ok := b.(*Atom)
		return ok && at == bt
	default:
		// Closures and NativeFns are never structurally equal.
		return false
	}
}
