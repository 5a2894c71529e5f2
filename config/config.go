// Package config loads the driver's configuration: history and bootstrap
// file locations, output formatting, and watch-mode behavior, from an
// optional YAML file layered over built-in defaults.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the complete driver configuration.
type Config struct {
	BaseDir string `yaml:"-"` // directory containing the config file; Load does not set it

	Prompt      string   `yaml:"prompt"`       // REPL prompt, default "sage> "; the REPL does not read it and uses its own fixed prompt
	HistoryFile string   `yaml:"history_file"` // history file path; the REPL does not read it and keeps its history in the temp dir
	Bootstrap   []string `yaml:"bootstrap"`    // extra files loaded before the REPL starts or a script runs
	Watch       bool     `yaml:"-"`            // set via --watch, not config

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging level, format and output settings. They are
// parsed from the config file, but nothing in the driver reads them.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // "text" or "json"
	Output string `yaml:"output"` // stderr, stdout, or a file path
}

// Defaults returns a Config with sensible defaults, used when no config
// file is present.
func Defaults() *Config {
	return &Config{
		Prompt:      "sage> ",
		HistoryFile: "",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads a YAML config file at path, layering its values over
// Defaults(). Environment variable references of the form ${NAME} in
// string fields are interpolated against getenv before parsing. A missing
// file is not an error: Load returns the defaults unchanged.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	interpolated := interpolateEnv(string(data), getenv)
	if err := yaml.Unmarshal([]byte(interpolated), cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return cfg, nil
}

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolateEnv replaces ${NAME} references in src with values from
// getenv, leaving unresolved references as an empty string.
func interpolateEnv(src string, getenv func(string) string) string {
	return envRefPattern.ReplaceAllStringFunc(src, func(match string) string {
		name := envRefPattern.FindStringSubmatch(match)[1]
		return getenv(name)
	})
}
