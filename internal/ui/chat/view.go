// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Pommersche92/lazyllama/internal/render"
	"github.com/Pommersche92/lazyllama/internal/ui/components"
	"github.com/Pommersche92/lazyllama/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

const (
	inputHeight  = 3
	footerHeight = 1
	minMainRows  = 8
	minWidth     = 20
)

type layout struct {
	bannerH  int
	debugH   int
	mainH    int
	leftW    int
	rightW   int
	historyH int

	historyInnerW int
	historyInnerH int
}

// layout splits the screen: banner on top, models on the left quarter,
// history above the input on the right, footer at the bottom. The banner
// is dropped when the terminal is too short for it.
func (m Model) layout() layout {
	var l layout
	if m.debug {
		l.debugH = 1
	}
	if m.cfg.UI.ShowBanner && m.height >= components.BannerHeight+minMainRows+footerHeight+l.debugH {
		l.bannerH = components.BannerHeight
	}
	l.mainH = m.height - l.bannerH - footerHeight - l.debugH
	l.leftW = m.width * 25 / 100
	l.rightW = m.width - l.leftW
	l.historyH = l.mainH - inputHeight
	l.historyInnerW = max(l.rightW-2, 0)
	l.historyInnerH = max(l.historyH-2, 0)
	return l
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	m.debugInfo.renders++

	l := m.layout()
	if m.width < minWidth || l.historyH < 3 {
		return "Terminal too small"
	}

	var sections []string
	if l.bannerH > 0 {
		sections = append(sections, components.Banner(m.theme.Banner, m.width))
	}

	models := components.Panel(m.theme.Panel, m.theme.PanelTitle, " Models ",
		components.ModelList(m.theme, m.sess.Models, m.sess.Selected, l.leftW-2, l.mainH-2),
		l.leftW, l.mainH)

	historyBorder := m.theme.Panel
	if !m.sess.Autoscroll {
		historyBorder = m.theme.PanelAlert
	}
	history := components.Panel(historyBorder, m.theme.PanelTitle, historyTitle(m.sess.Autoscroll),
		m.viewport.View(), l.rightW, l.historyH)

	inputBorder := m.theme.Panel
	if m.sess.Loading {
		inputBorder = m.theme.PanelAlert
	}
	input := components.Panel(inputBorder, m.theme.PanelTitle, m.inputTitle(),
		components.InputLine(m.theme, m.sess.Input, l.rightW-2), l.rightW, inputHeight)

	right := lipgloss.JoinVertical(lipgloss.Left, history, input)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, models, right))

	if m.debug {
		sections = append(sections, m.debugLine())
	}
	sections = append(sections, m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func historyTitle(autoscroll bool) string {
	status := " [MANUAL SCROLL 🔒] "
	if autoscroll {
		status = " [AUTOSCROLL] "
	}
	return fmt.Sprintf(" Conversation History%s ", status)
}

func (m Model) inputTitle() string {
	if m.sess.Loading {
		return fmt.Sprintf(" %s AI is thinking... ", m.spinner.View())
	}
	return " > Input "
}

func (m Model) footer() string {
	line := m.theme.Footer.Render(" " + m.help.ShortHelpView(m.keys.ShortHelp()) + " ")
	if m.status == "" {
		return line
	}
	room := m.width - lipgloss.Width(line) - 1
	if room <= 0 {
		return line
	}
	style := m.theme.Status
	if m.statusIsErr {
		style = m.theme.StatusError
	}
	return line + " " + style.Render(util.TruncateWidth(m.status, room))
}

func (m Model) debugLine() string {
	line := fmt.Sprintf("render #%d | key: %q | scroll %d/%d view %d | auto %t | loading %t",
		m.debugInfo.renders, m.debugInfo.lastKey,
		m.sess.Scroll, m.viewport.TotalLineCount(), m.viewport.Height,
		m.sess.Autoscroll, m.sess.Loading)
	return m.theme.Debug.Render(util.TruncateWidth(line, m.width))
}

func (m Model) transcriptRows() []string {
	t := components.Transcript{Theme: m.theme, Highlighter: m.highlighter}
	return t.Rows(render.Parse(m.sess.Transcript), m.viewport.Width)
}
