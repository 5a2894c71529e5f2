package reader

import (
	"testing"

	"github.com/sambeau/sage/pkg/sage/types"
)

func mustRead(t *testing.T, src string) types.Value {
	t.Helper()
	v, err := Read(src)
	if err != nil {
		t.Fatalf("Read(%q): %v", src, err)
	}
	return v
}

func TestReadAtoms(t *testing.T) {
	if v := mustRead(t, "42"); v.Inspect() != "42" {
		t.Fatalf("got %s", v.Inspect())
	}
	if v := mustRead(t, "-7"); v.Inspect() != "-7" {
		t.Fatalf("got %s", v.Inspect())
	}
	if v := mustRead(t, "nil"); v != types.NilValue {
		t.Fatalf("expected NilValue singleton, got %#v", v)
	}
	if v := mustRead(t, "true"); v != types.TrueValue {
		t.Fatalf("expected TrueValue singleton, got %#v", v)
	}
	if v := mustRead(t, "foo-bar?"); v.Inspect() != "foo-bar?" {
		t.Fatalf("got %s", v.Inspect())
	}
	if v := mustRead(t, ":kw"); v.Inspect() != ":kw" {
		t.Fatalf("got %s", v.Inspect())
	}
}

func TestReadString(t *testing.T) {
	v := mustRead(t, `"a\nb\"c\\d"`)
	s, ok := v.(*types.String)
	if !ok {
		t.Fatalf("expected *types.String, got %T", v)
	}
	if s.Value != "a\nb\"c\\d" {
		t.Fatalf("got %q", s.Value)
	}
}

func TestReadListVectorMap(t *testing.T) {
	v := mustRead(t, "(1 2 3)")
	l, ok := v.(*types.List)
	if !ok || len(l.Items) != 3 {
		t.Fatalf("got %#v", v)
	}

	v = mustRead(t, "[1 2]")
	vec, ok := v.(*types.Vector)
	if !ok || len(vec.Items) != 2 {
		t.Fatalf("got %#v", v)
	}

	v = mustRead(t, `{:a 1 "b" 2}`)
	m, ok := v.(*types.Map)
	if !ok || m.Len() != 2 {
		t.Fatalf("got %#v", v)
	}
}

func TestReadMacros(t *testing.T) {
	cases := map[string]string{
		"'x":  "(quote x)",
		"`x":  "(quasiquote x)",
		"~x":  "(unquote x)",
		"~@x": "(splice-unquote x)",
		"@x":  "(deref x)",
	}
	for src, want := range cases {
		v := mustRead(t, src)
		if v.Inspect() != want {
			t.Fatalf("%s: got %s, want %s", src, v.Inspect(), want)
		}
	}
}

func TestReadComment(t *testing.T) {
	v := mustRead(t, "1 ; comment\n")
	if v.Inspect() != "1" {
		t.Fatalf("got %s", v.Inspect())
	}
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read("   ; just a comment\n")
	if err != ErrEmptyInput {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestReadUnbalanced(t *testing.T) {
	if _, err := Read("(1 2"); err == nil {
		t.Fatal("expected error for unbalanced list")
	}
	if _, err := Read(")"); err == nil {
		t.Fatal("expected error for stray close paren")
	}
}

func TestReadNestedQuasiquote(t *testing.T) {
	v := mustRead(t, "`(1 ~a ~@b)")
	if v.Inspect() != "(quasiquote (1 (unquote a) (splice-unquote b)))" {
		t.Fatalf("got %s", v.Inspect())
	}
}
