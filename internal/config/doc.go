// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads lazyllama settings.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LAZYLLAMA_*)
//   - an explicit --config path
//   - <user config dir>/lazyllama/config.toml
//   - <user config dir>/lazyllama/config.yaml
//   - Built-in defaults
//
// A missing file is not an error. Files are decoded on top of Default, so a
// file only needs the keys it changes.
//
// # Live Reload
//
// Watch re-reads the file when it changes on disk and hands the new Config to
// a callback; the TUI turns that into a message so settings apply without a
// restart.
package config
