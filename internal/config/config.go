// Package config loads intro.yaml project settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is looked up next to the tree file when no -config flag is given.
const FileName = "intro.yaml"

// Config holds the settings the CLI reads from intro.yaml.
type Config struct {
	// Path is the absolute path of the loaded file, empty for defaults.
	Path string `yaml:"-"`

	// Source is the Intro source text the tree was parsed from. It is only
	// used to show the offending line under diagnostics.
	Source string `yaml:"source"`

	// TracePrefix is written before every trace line. "{source}" expands
	// to the source (or tree) path.
	TracePrefix string `yaml:"trace_prefix"`

	Cases Cases `yaml:"cases"`
}

// Cases describes the fixture layout used by `intro test`.
type Cases struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

func Default() *Config {
	return &Config{
		TracePrefix: "{source}:",
		Cases: Cases{
			Dir:    ".",
			Prefix: "case",
			Input:  "input",
			Output: "output",
		},
	}
}

// Load parses path on top of the defaults.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// Decode reads YAML settings from r. Unknown keys are rejected and an empty
// document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find loads explicit when set, otherwise intro.yaml in the directory of
// treePath if it exists, otherwise the defaults.
func Find(explicit, treePath string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	candidate := filepath.Join(filepath.Dir(treePath), FileName)
	info, err := os.Stat(candidate)
	if err == nil && !info.IsDir() {
		return Load(candidate)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: stat %s: %w", candidate, err)
	}
	return Default(), nil
}

func (c *Config) validate() error {
	var errs ValidationError
	if c.Cases.Prefix == "" {
		errs.Issues = append(errs.Issues, "cases.prefix must be provided")
	}
	if c.Cases.Input == "" {
		errs.Issues = append(errs.Issues, "cases.input must be provided")
	}
	if c.Cases.Output == "" {
		errs.Issues = append(errs.Issues, "cases.output must be provided")
	}
	if c.Cases.Input != "" && c.Cases.Input == c.Cases.Output {
		errs.Issues = append(errs.Issues, "cases.input and cases.output must differ")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Resolve interprets p relative to the config file's directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), filepath.FromSlash(p))
}

// Prefix expands TracePrefix for the given source path.
func (c *Config) Prefix(source string) string {
	return strings.ReplaceAll(c.TracePrefix, "{source}", source)
}
