// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ROLE COLORS
// =============================================================================

// Magenta - user label
var Magenta = lipgloss.AdaptiveColor{Light: "#A21CAF", Dark: "#E879F9"}

// Cyan - assistant label, banner
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Amber - code frames, loading and manual-scroll borders
var Amber = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// Heading - markdown headings
var Heading = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

// Selection - background of the selected model
var Selection = lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#1D4ED8"}

// Overlay - panel borders
var Overlay = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#45475A"}

// TextPrimary - body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextMuted - hints and debug info
var TextMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#7F849C"}

// FooterBg - key hint bar background
var FooterBg = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}

// FooterFg - key hint bar text
var FooterFg = lipgloss.AdaptiveColor{Light: "#F9FAFB", Dark: "#111827"}

// Rose - errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Emerald - success notices
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
