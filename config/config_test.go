package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Prompt != "sage> " {
		t.Errorf("Prompt = %q", cfg.Prompt)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q", cfg.Logging.Format)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/sage.yaml", func(string) string { return "" })
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prompt != "sage> " {
		t.Errorf("expected default prompt, got %q", cfg.Prompt)
	}
}

func TestInterpolateEnv(t *testing.T) {
	getenv := func(key string) string {
		if key == "SAGE_PROMPT" {
			return "custom> "
		}
		return ""
	}
	src := "prompt: \"${SAGE_PROMPT}\"\n"
	got := interpolateEnv(src, getenv)
	want := "prompt: \"custom> \"\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInterpolateEnvLeavesUnresolvedBlank(t *testing.T) {
	got := interpolateEnv("x: ${MISSING_VAR}", func(string) string { return "" })
	if got != "x: " {
		t.Errorf("got %q", got)
	}
}
