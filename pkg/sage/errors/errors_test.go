package errors

import "testing"

func TestSageErrorString(t *testing.T) {
	e := New(ClassType, "expected number, got string")
	if got := e.Error(); got != "expected number, got string" {
		t.Fatalf("got %q", got)
	}
}

func TestSageErrorWithPositionAndFile(t *testing.T) {
	e := New(ClassParse, "unexpected ')'").WithFile("core.sg").WithPosition(3, 7)
	got := e.String()
	want := "core.sg: line 3, column 7: unexpected ')'"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSageErrorPrettyStringHints(t *testing.T) {
	e := NewWithHints(ClassUndefined, "'printf' not found", "did you mean 'print'?")
	got := e.PrettyString()
	if got != "Runtime error:\n  'printf' not found\n  Use: did you mean 'print'?" {
		t.Fatalf("got %q", got)
	}
}

func TestIsCatchable(t *testing.T) {
	if !ClassIO.IsCatchable() {
		t.Fatal("IO errors should be catchable")
	}
	if ClassArity.IsCatchable() {
		t.Fatal("arity errors should not be catchable")
	}
}

func TestFindClosestMatch(t *testing.T) {
	candidates := []string{"first", "second", "rest", "reset!"}
	if got := FindClosestMatch("fist", candidates); got != "first" {
		t.Fatalf("got %q", got)
	}
	if got := FindClosestMatch("xyz", candidates); got != "" {
		t.Fatalf("expected no match, got %q", got)
	}
}

func TestNewUndefinedSymbol(t *testing.T) {
	e := NewUndefinedSymbol("prnit", []string{"print", "println", "prn"})
	if e.Class != ClassUndefined {
		t.Fatalf("got class %s", e.Class)
	}
	if len(e.Hints) == 0 {
		t.Fatal("expected a did-you-mean hint")
	}
}
