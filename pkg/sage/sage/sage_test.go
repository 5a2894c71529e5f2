package sage

import "testing"

func TestInterpreterBootstrap(t *testing.T) {
	interp := New()
	v, err := interp.Eval("(not false)")
	if err != nil {
		t.Fatal(err)
	}
	if v.Inspect() != "true" {
		t.Fatalf("got %s", v.Inspect())
	}
}

func TestInterpreterEvalArithmetic(t *testing.T) {
	interp := New()
	v, err := interp.Eval("(+ 1 2 3)")
	if err != nil {
		t.Fatal(err)
	}
	if v.Inspect() != "6" {
		t.Fatalf("got %s", v.Inspect())
	}
}

func TestBufferedLogger(t *testing.T) {
	l := NewBufferedLogger()
	l.LogLine("hello", "world")
	if got := l.String(); got != "hello world\n" {
		t.Fatalf("got %q", got)
	}
}
