// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Pommersche92/lazyllama/internal/render"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// LAYOUT
	// ==========================================================================

	Banner        lipgloss.Style
	Panel         lipgloss.Style
	PanelAlert    lipgloss.Style
	PanelTitle    lipgloss.Style
	ModelItem     lipgloss.Style
	ModelSelected lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	Plain     lipgloss.Style
	Heading   lipgloss.Style
	UserLabel lipgloss.Style
	AILabel   lipgloss.Style
	CodeFrame lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS
	// ==========================================================================

	InputText   lipgloss.Style
	Caret       lipgloss.Style
	Placeholder lipgloss.Style
	Footer      lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	StatusOK    lipgloss.Style
	Debug       lipgloss.Style
}

// NewTheme builds a theme for mode "auto", "dark" or "light". Auto asks the
// terminal for its background.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Banner = lipgloss.NewStyle().Foreground(Cyan)
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)
	t.PanelAlert = t.Panel.BorderForeground(Amber)
	t.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.ModelItem = lipgloss.NewStyle().Foreground(TextPrimary)
	t.ModelSelected = lipgloss.NewStyle().Bold(true).Background(Selection)

	t.Plain = lipgloss.NewStyle()
	t.Heading = lipgloss.NewStyle().Bold(true).Foreground(Heading)
	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(Magenta)
	t.AILabel = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.CodeFrame = lipgloss.NewStyle().Foreground(Amber)

	t.InputText = lipgloss.NewStyle().Foreground(TextPrimary)
	t.Caret = lipgloss.NewStyle().Reverse(true)
	t.Placeholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.Footer = lipgloss.NewStyle().Background(FooterBg).Foreground(FooterFg)
	t.Status = lipgloss.NewStyle().Foreground(TextMuted)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose)
	t.StatusOK = lipgloss.NewStyle().Foreground(Emerald)
	t.Debug = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
}

// Span returns the style for a transcript span.
func (t *Theme) Span(s render.Style) lipgloss.Style {
	switch s {
	case render.StyleHeading:
		return t.Heading
	case render.StyleUserLabel:
		return t.UserLabel
	case render.StyleAILabel:
		return t.AILabel
	case render.StyleCode:
		return t.CodeFrame
	default:
		return t.Plain
	}
}

// ChromaFormatter names the chroma formatter matching the terminal.
func (t *Theme) ChromaFormatter() string {
	switch t.ColorProfile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal16"
	default:
		return "noop"
	}
}
