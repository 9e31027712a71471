// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Pommersche92/lazyllama/internal/util"
)

// Panel draws body inside border with title set into the top edge. width
// and height include the border.
func Panel(border, titleStyle lipgloss.Style, title, body string, width, height int) string {
	inner := width - 2
	innerH := height - 2
	if inner < 1 || innerH < 0 {
		return ""
	}

	content := lipgloss.NewStyle().
		Width(inner).MaxWidth(inner).
		Height(innerH).MaxHeight(innerH).
		Render(body)

	b := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(border.GetBorderTopForeground())

	title = util.TruncateWidth(title, inner)
	fill := inner - lipgloss.Width(title)
	if fill < 0 {
		fill = 0
	}
	top := edge.Render(b.TopLeft) +
		titleStyle.Render(title) +
		edge.Render(strings.Repeat(b.Top, fill)) +
		edge.Render(b.TopRight)

	if innerH == 0 {
		return top + "\n" + edge.Render(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight)
	}
	// unsetting only the top would drop lipgloss's implicit borders
	sides := border.BorderTop(false).BorderRight(true).BorderBottom(true).BorderLeft(true)
	return top + "\n" + sides.Render(content)
}
