package main

import (
	"bytes"
	"context"
	"os"
	"testing"
)

func TestRunEvalFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-e", "(+ 1 2)"}, &stdout, &stderr, func(string) string { return "" })
	if err != nil {
		t.Fatalf("run: %v, stderr=%s", err, stderr.String())
	}
	if got := stdout.String(); got != "3\n" {
		t.Fatalf("got %q", got)
	}
}

func TestRunVersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-version"}, &stdout, &stderr, func(string) string { return "" })
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.Len() == 0 {
		t.Fatal("expected version output")
	}
}

func TestRunDocCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"doc", "if"}, &stdout, &stderr, func(string) string { return "" })
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !bytes.Contains(stdout.Bytes(), []byte("special form")) {
		t.Fatalf("got %q", stdout.String())
	}
}

func TestRunFileMode(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/script.sage"
	if err := os.WriteFile(path, []byte("(println (+ 1 41))"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{path}, &stdout, &stderr, func(string) string { return "" })
	if err != nil {
		t.Fatalf("run: %v, stderr=%s", err, stderr.String())
	}
	if got := stdout.String(); got != "42\n" {
		t.Fatalf("got %q", got)
	}
}
