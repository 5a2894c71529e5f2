package printer

import (
	"strconv"
	"strings"

	"github.com/sambeau/sage/pkg/sage/types"
)

// Str renders v back to source text. In readable mode (pr-str, prn) string
// contents are quoted and backslash/quote/newline are escaped, so the
// result reads back as the same value; in display mode (str, println)
// strings print their raw bytes. The flag threads unchanged through every
// nested element of a List/Vector/Map, which is the whole reason pr_str
// takes it as an argument instead of being two separate functions.
func Str(v types.Value, readable bool) string {
	switch t := v.(type) {
	case *types.String:
		if readable {
			return quoteString(t.Value)
		}
		return t.Value
	case *types.List:
		return strSeq("(", t.Items, ")", readable)
	case *types.Vector:
		return strSeq("[", t.Items, "]", readable)
	case *types.Map:
		return strMap(t, readable)
	case *types.Atom:
		return "(atom " + Str(t.Value, readable) + ")"
	default:
		return v.Inspect()
	}
}

func strSeq(open string, items []types.Value, close string, readable bool) string {
	var sb strings.Builder
	sb.WriteString(open)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(Str(it, readable))
	}
	sb.WriteString(close)
	return sb.String()
}

func strMap(m *types.Map, readable bool) string {
	var sb strings.Builder
	sb.WriteString("{")
	keys := m.Keys()
	vals := m.Vals()
	for i := range keys {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(Str(keys[i], readable))
		sb.WriteString(" ")
		sb.WriteString(Str(vals[i], readable))
	}
	sb.WriteString("}")
	return sb.String()
}

// quoteString escapes a string for readable pr_str output: backslash,
// double quote, and newline are the only characters the reader itself
// recognizes as escapes, so those are the only ones re-escaped here.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteString(`"`)
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString(`"`)
	return sb.String()
}

// Quote is a small helper exposed for callers that need Go-string quoting
// without the reader-escape subset Str uses.
func Quote(s string) string { return strconv.Quote(s) }
