package printer

import (
	"github.com/sambeau/sage/pkg/sage/types"
)

// Pretty renders v with the same readable-mode quoting as Str, but breaks a
// List/Vector/Map onto one element per line, indented, whenever its inline
// rendering would exceed SeqThreshold. Used by the REPL to display results
// when raw output mode is off.
func Pretty(v types.Value) string {
	p := NewPrinter()
	p.pretty(v)
	return p.String()
}

func (p *Printer) pretty(v types.Value) {
	switch t := v.(type) {
	case *types.List:
		p.prettySeq("(", t.Items, ")")
	case *types.Vector:
		p.prettySeq("[", t.Items, "]")
	case *types.Map:
		p.prettyMap(t)
	default:
		p.write(Str(v, true))
	}
}

func (p *Printer) prettySeq(open string, items []types.Value, close string) {
	inline := Str(itemsToSeqValue(open, items), true)
	if fitsInThreshold(inline, SeqThreshold) {
		p.write(inline)
		return
	}

	p.write(open)
	p.newline()
	p.indentInc()
	for _, it := range items {
		p.writeIndent()
		p.pretty(it)
		p.newline()
	}
	p.indentDec()
	p.writeIndent()
	p.write(close)
}

func (p *Printer) prettyMap(m *types.Map) {
	inline := Str(m, true)
	if fitsInThreshold(inline, SeqThreshold) {
		p.write(inline)
		return
	}

	p.write("{")
	p.newline()
	p.indentInc()
	keys, vals := m.Keys(), m.Vals()
	for i := range keys {
		p.writeIndent()
		p.pretty(keys[i])
		p.write(" ")
		p.pretty(vals[i])
		p.newline()
	}
	p.indentDec()
	p.writeIndent()
	p.write("}")
}

// itemsToSeqValue builds a throwaway List/Vector just to reuse Str's
// element-joining logic for the inline-fit check.
func itemsToSeqValue(open string, items []types.Value) types.Value {
	if open == "[" {
		return &types.Vector{Items: items}
	}
	return &types.List{Items: items}
}
