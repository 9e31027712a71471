// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Pommersche92/lazyllama/internal/editor"
	"github.com/Pommersche92/lazyllama/internal/ui/styles"
)

// InputLine renders buf into width columns. When the text is wider than the
// field it scrolls horizontally to keep the caret in view. The caret cell is
// drawn reversed while the blink phase is visible.
func InputLine(theme *styles.Theme, buf *editor.Buffer, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(buf.String())
	cursor := buf.Cursor()
	start := windowStart(runes, cursor, width)

	caretOn := buf.Blink() == nil || buf.Blink().Visible()

	var b strings.Builder
	used := 0
	for i := start; i <= len(runes); i++ {
		cell := " "
		if i < len(runes) {
			cell = string(runes[i])
		}
		w := runewidth.StringWidth(cell)
		if used+w > width {
			break
		}
		used += w

		switch {
		case i == cursor && caretOn:
			b.WriteString(theme.Caret.Render(cell))
		case i == len(runes):
			b.WriteString(cell)
		default:
			b.WriteString(theme.InputText.Render(cell))
		}
	}
	return b.String()
}

// windowStart returns the first visible rune so the caret cell fits in
// width columns.
func windowStart(runes []rune, cursor, width int) int {
	caretWidth := 1
	if cursor < len(runes) {
		caretWidth = runewidth.RuneWidth(runes[cursor])
	}
	start := 0
	for start < cursor && runewidth.StringWidth(string(runes[start:cursor]))+caretWidth > width {
		start++
	}
	return start
}
