// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the colors and lipgloss styles for the lazyllama
// TUI. Colors are AdaptiveColor values so one palette serves dark and light
// terminals.
package styles
