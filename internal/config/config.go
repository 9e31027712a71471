// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Pommersche92/lazyllama/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete lazyllama configuration.
type Config struct {
	// DefaultModel is selected at startup when installed. Empty selects the
	// first model Ollama reports.
	DefaultModel string `toml:"default_model" yaml:"default_model"`

	// Debug shows the key/scroll overlay. Also set by LAZYLLAMA_DEBUG_KEYS.
	Debug bool `toml:"debug" yaml:"debug"`

	Ollama  OllamaConfig  `toml:"ollama" yaml:"ollama"`
	UI      UIConfig      `toml:"ui" yaml:"ui"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// OllamaConfig contains model server settings.
type OllamaConfig struct {
	// URL of the Ollama API
	URL string `toml:"url" yaml:"url"`
	// TimeoutSeconds bounds model listing; streaming is unbounded
	TimeoutSeconds int `toml:"timeout_seconds" yaml:"timeout_seconds"`
	// System prompt sent with every request
	System string `toml:"system" yaml:"system"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme" yaml:"theme"`
	// ShowBanner draws the ASCII banner above the panels
	ShowBanner bool `toml:"show_banner" yaml:"show_banner"`
	// Autoscroll is the initial autoscroll state
	Autoscroll bool `toml:"autoscroll" yaml:"autoscroll"`
	// CodeStyle is a chroma style name for fenced code
	CodeStyle string `toml:"code_style" yaml:"code_style"`
	// Highlight enables syntax highlighting inside fenced code
	Highlight bool `toml:"highlight" yaml:"highlight"`
	// ScrollStep is how many lines PgUp/PgDn move
	ScrollStep int `toml:"scroll_step" yaml:"scroll_step"`
}

// HistoryConfig controls what is kept after the session ends.
type HistoryConfig struct {
	// SaveOnExit writes transcripts to text files when quitting
	SaveOnExit bool `toml:"save_on_exit" yaml:"save_on_exit"`
	// Dir overrides the data directory for transcripts and the archive
	Dir string `toml:"dir" yaml:"dir"`
	// Archive records every exchange in a SQLite database
	Archive bool `toml:"archive" yaml:"archive"`
}

// LogConfig controls the log file.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error"
	Level string `toml:"level" yaml:"level"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Ollama: OllamaConfig{
			URL:            "http://127.0.0.1:11434",
			TimeoutSeconds: 10,
		},
		UI: UIConfig{
			Theme:      "auto",
			ShowBanner: true,
			Autoscroll: true,
			CodeStyle:  "monokai",
			Highlight:  true,
			ScrollStep: 5,
		},
		History: HistoryConfig{
			SaveOnExit: true,
			Archive:    true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the non-streaming request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Ollama.TimeoutSeconds) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the lazyllama configuration directory path.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine config directory: %w", err)
	}
	return filepath.Join(base, "lazyllama"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Resolve returns the file Load would read: explicit if set, otherwise the
// first existing default path. found is false when no file exists.
func Resolve(explicit string) (path string, found bool, err error) {
	if explicit != "" {
		return explicit, true, nil
	}
	for _, candidate := range []func() (string, error){ConfigPathTOML, ConfigPathYAML} {
		p, err := candidate()
		if err != nil {
			return "", false, err
		}
		if _, statErr := os.Stat(p); statErr == nil {
			return p, true, nil
		}
	}
	p, err := ConfigPathTOML()
	return p, false, err
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the configuration. explicit may name a file; otherwise the
// default locations are tried. Environment overrides are applied last.
func Load(explicit string) (*Config, error) {
	path, found, err := Resolve(explicit)
	if err != nil {
		return nil, err
	}
	if !found {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath decodes the file at path on top of the defaults, applies
// environment overrides and validates. The format follows the extension:
// .yaml/.yml is YAML, anything else is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := decode(cfg, path, data); err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(cfg *Config, path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML config %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to decode TOML config %s: %w", path, err)
		}
	}
	return nil
}

// Marshal encodes cfg as YAML when ext is .yaml/.yml and as TOML otherwise.
func Marshal(cfg *Config, ext string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		enc.Close()
	default:
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path in the format implied by its extension.
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg, filepath.Ext(path))
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, data, 0o644, 0o755)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// Environment variable names.
const (
	EnvOllamaURL = "LAZYLLAMA_OLLAMA_URL"
	EnvModel     = "LAZYLLAMA_MODEL"
	EnvDataDir   = "LAZYLLAMA_DATA_DIR"
	EnvLogLevel  = "LAZYLLAMA_LOG_LEVEL"
	EnvDebugKeys = "LAZYLLAMA_DEBUG_KEYS"
)

// ApplyEnvOverrides applies LAZYLLAMA_* variables on top of c.
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv(EnvOllamaURL); u != "" {
		c.Ollama.URL = u
	}
	if m := os.Getenv(EnvModel); m != "" {
		c.DefaultModel = m
	}
	if d := os.Getenv(EnvDataDir); d != "" {
		c.History.Dir = d
	}
	if l := os.Getenv(EnvLogLevel); l != "" {
		c.Log.Level = strings.ToLower(l)
	}
	if v, ok := os.LookupEnv(EnvDebugKeys); ok {
		c.Debug = DebugEnabled(v)
	}
}

// DebugEnabled interprets a LAZYLLAMA_DEBUG_KEYS value: anything except "0"
// and "false" (any case) turns the overlay on.
func DebugEnabled(v string) bool {
	return v != "0" && !strings.EqualFold(v, "false")
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks c and returns ValidateErrors listing every problem.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Ollama.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{Field: "ollama.url", Message: fmt.Sprintf("must be an http(s) URL, got %q", c.Ollama.URL)})
	}
	if c.Ollama.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{Field: "ollama.timeout_seconds", Message: "must be positive"})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{Field: "ui.theme", Message: fmt.Sprintf("must be auto, dark or light, got %q", c.UI.Theme)})
	}
	if c.UI.ScrollStep < 1 {
		errs = append(errs, ValidationError{Field: "ui.scroll_step", Message: "must be at least 1"})
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
