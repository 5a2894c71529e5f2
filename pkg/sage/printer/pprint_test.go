package printer

import (
	"strings"
	"testing"

	"github.com/sambeau/sage/pkg/sage/types"
)

func TestStrReadableVsDisplay(t *testing.T) {
	s := &types.String{Value: "hi\nthere"}
	if got := Str(s, true); got != `"hi\nthere"` {
		t.Fatalf("readable: got %q", got)
	}
	if got := Str(s, false); got != "hi\nthere" {
		t.Fatalf("display: got %q", got)
	}
}

func TestStrNestedList(t *testing.T) {
	l := types.NewList(
		types.NewSymbol("a"),
		types.NewList(&types.Number{Value: 1}, &types.Number{Value: 2}),
		&types.String{Value: "x"},
	)
	if got := Str(l, true); got != `(a (1 2) "x")` {
		t.Fatalf("got %q", got)
	}
}

func TestStrVectorAndMap(t *testing.T) {
	v := types.NewVector(&types.Number{Value: 1}, &types.Number{Value: 2})
	if got := Str(v, true); got != "[1 2]" {
		t.Fatalf("got %q", got)
	}

	m, err := types.NewMap().Assoc(types.NewKeyword("a"), &types.Number{Value: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := Str(m, true); got != "{:a 1}" {
		t.Fatalf("got %q", got)
	}
}

func TestPrettyBreaksLongSeq(t *testing.T) {
	items := make([]types.Value, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, types.NewSymbol("a-fairly-long-symbol-name"))
	}
	l := &types.List{Items: items}
	got := Pretty(l)
	if !strings.Contains(got, "\n") {
		t.Fatalf("expected multiline output for long list, got %q", got)
	}
	if !strings.HasPrefix(got, "(\n") {
		t.Fatalf("expected multiline list to open with '(\\n', got %q", got)
	}
}

func TestPrettyInlineShortSeq(t *testing.T) {
	l := types.NewList(&types.Number{Value: 1}, &types.Number{Value: 2})
	got := Pretty(l)
	if got != "(1 2)" {
		t.Fatalf("expected short list inline, got %q", got)
	}
}
