// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires the lazyllama commands.
//
// Running lazyllama with no subcommand starts the TUI. The subcommands
// cover line-mode use:
//
//   - chat: interactive prompt with line editing and history
//   - models: list installed models
//   - history: browse the exchange archive
//   - config: create, locate and print the configuration
//   - version: print the build version
//
// Global flags --config and --log-level apply to every command.
package cli
