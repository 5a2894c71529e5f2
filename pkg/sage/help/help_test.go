package help

import (
	"strings"
	"testing"
)

func TestDescribeEntry(t *testing.T) {
	result, err := DescribeTopic("fn*")
	if err != nil {
		t.Fatalf("DescribeTopic(fn*): %v", err)
	}
	if result.Kind != "entry" {
		t.Fatalf("Kind = %q, want entry", result.Kind)
	}
	if result.Entry.Name != "fn*" {
		t.Fatalf("Name = %q, want fn*", result.Entry.Name)
	}
}

func TestDescribeCategory(t *testing.T) {
	result, err := DescribeTopic("printing")
	if err != nil {
		t.Fatalf("DescribeTopic(printing): %v", err)
	}
	if result.Kind != "category" {
		t.Fatalf("Kind = %q, want category", result.Kind)
	}
	names := make(map[string]bool)
	for _, e := range result.Entries {
		names[e.Name] = true
	}
	for _, want := range []string{"pr-str", "str", "prn", "println", "read-string"} {
		if !names[want] {
			t.Errorf("category %q missing entry %q", "printing", want)
		}
	}
}

func TestDescribeIndex(t *testing.T) {
	result, err := DescribeTopic("builtins")
	if err != nil {
		t.Fatalf("DescribeTopic(builtins): %v", err)
	}
	if result.Kind != "index" {
		t.Fatalf("Kind = %q, want index", result.Kind)
	}
	if len(result.Entries) < 40 {
		t.Fatalf("expected a substantial index, got %d entries", len(result.Entries))
	}
}

func TestDescribeUnknownSuggestsClosest(t *testing.T) {
	_, err := DescribeTopic("atmo")
	if err == nil {
		t.Fatal("expected an error for unknown topic")
	}
	if !strings.Contains(err.Error(), "atom") {
		t.Fatalf("expected suggestion to mention atom, got %v", err)
	}
}

func TestFormatTextEntry(t *testing.T) {
	result, _ := DescribeTopic("if")
	text := FormatText(result)
	if !strings.Contains(text, "if (special form)") {
		t.Fatalf("got %q", text)
	}
	if !strings.Contains(text, "(if cond then else?)") {
		t.Fatalf("got %q", text)
	}
}

func TestRenderMarkdownAndHTML(t *testing.T) {
	result, _ := DescribeTopic("swap!")
	md := RenderMarkdown(result)
	if !strings.Contains(md, "# swap!") {
		t.Fatalf("markdown missing heading: %q", md)
	}
	html, err := RenderHTML(result)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "<h1>") {
		t.Fatalf("expected an h1 in rendered HTML, got %q", html)
	}
}
