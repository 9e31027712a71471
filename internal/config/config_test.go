// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvOllamaURL, EnvModel, EnvDataDir, EnvLogLevel, EnvDebugKeys} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://127.0.0.1:11434", cfg.Ollama.URL)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.True(t, cfg.UI.Autoscroll)
	assert.Equal(t, 5, cfg.UI.ScrollStep)
	assert.False(t, cfg.Debug)
}

func TestLoadFromPath_TOMLOverlaysDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_model = "llama3:8b"

[ui]
theme = "dark"
show_banner = false
`), 0o644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "llama3:8b", cfg.DefaultModel)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.False(t, cfg.UI.ShowBanner)
	assert.True(t, cfg.UI.Autoscroll, "unset keys keep defaults")
	assert.Equal(t, "monokai", cfg.UI.CodeStyle)
}

func TestLoadFromPath_YAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ollama:
  url: http://gpu-box:11434
  system: Answer briefly.
log:
  level: debug
`), 0o644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.URL)
	assert.Equal(t, "Answer briefly.", cfg.Ollama.System)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Ollama.TimeoutSeconds)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ui]
theme = "neon"
scroll_step = 0
`), 0o644))

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
}

func TestLoadFromPath_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("default_model = "), 0o644))
	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// =============================================================================
// ENV TESTS
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOllamaURL, "http://other:1234")
	t.Setenv(EnvModel, "qwen:7b")
	t.Setenv(EnvDataDir, "/tmp/ll")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvDebugKeys, "yes")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "http://other:1234", cfg.Ollama.URL)
	assert.Equal(t, "qwen:7b", cfg.DefaultModel)
	assert.Equal(t, "/tmp/ll", cfg.History.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Debug)
}

func TestDebugEnabled(t *testing.T) {
	tests := map[string]bool{
		"1":     true,
		"true":  true,
		"on":    true,
		"":      true,
		"0":     false,
		"false": false,
		"FALSE": false,
		"False": false,
	}
	for in, want := range tests {
		if got := DebugEnabled(in); got != want {
			t.Errorf("DebugEnabled(%q) = %v, want %v", in, got, want)
		}
	}
}

// =============================================================================
// SAVE / WATCH TESTS
// =============================================================================

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	for _, name := range []string{"config.toml", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.DefaultModel = "mistral:7b"
			cfg.UI.Theme = "light"

			require.NoError(t, Save(cfg, path))
			got, err := LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Save(Default(), path))

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	cfg := Default()
	cfg.UI.Theme = "dark"
	require.NoError(t, Save(cfg, path))

	select {
	case got := <-reloaded:
		assert.Equal(t, "dark", got.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload")
	}
}
