// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Pommersche92/lazyllama/internal/ui/styles"
)

// =============================================================================
// SHARED STYLES FOR LINE-MODE COMMANDS
// =============================================================================

var (
	// promptStyle is the chat prompt.
	promptStyle = lipgloss.NewStyle().Foreground(styles.Magenta).Bold(true)

	// aiStyle labels assistant output.
	aiStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)

	// headerStyle is used for table headers.
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	// mutedStyle is used for secondary details.
	mutedStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)

	// errorStyle prefixes error messages.
	errorStyle = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)

	// successStyle marks completed actions.
	successStyle = lipgloss.NewStyle().Foreground(styles.Emerald)
)
