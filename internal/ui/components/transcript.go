// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/Pommersche92/lazyllama/internal/render"
	"github.com/Pommersche92/lazyllama/internal/ui/styles"
)

// Transcript turns a parsed conversation into terminal rows.
type Transcript struct {
	Theme *styles.Theme
	// Highlighter colors code bodies. Nil renders them plain.
	Highlighter *Highlighter
}

// Rows styles every line of doc and wraps it to width. The result has one
// entry per terminal row, which is the unit scrolling works in.
func (t Transcript) Rows(doc render.Document, width int) []string {
	if width <= 0 {
		return nil
	}

	rows := make([]string, 0, doc.Len())
	highlighted := make(map[int][]string)
	counts := bodyLineCounts(doc)
	bodyLine := 0

	for _, line := range doc.Lines {
		var styled string
		switch line.Kind {
		case render.KindCodeHeader:
			bodyLine = 0
			styled = t.spans(line.Spans)
		case render.KindCodeBody:
			styled = t.codeBody(doc, line, bodyLine, counts, highlighted)
			bodyLine++
		default:
			styled = t.spans(line.Spans)
		}
		rows = append(rows, wrapRow(styled, width)...)
	}
	return rows
}

func (t Transcript) spans(spans []render.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		b.WriteString(t.Theme.Span(s.Style).Render(s.Text))
	}
	return b.String()
}

func (t Transcript) codeBody(doc render.Document, line render.Line, idx int, counts []int, cache map[int][]string) string {
	if t.Highlighter == nil || line.Block < 0 || line.Block >= len(doc.Blocks) || len(line.Spans) < 2 {
		return t.spans(line.Spans)
	}
	lines, ok := cache[line.Block]
	if !ok {
		block := doc.Blocks[line.Block]
		lines = t.Highlighter.Lines(block.Lang, block.Code, counts[line.Block])
		cache[line.Block] = lines
	}
	if idx >= len(lines) {
		return t.spans(line.Spans)
	}
	return t.Theme.Span(line.Spans[0].Style).Render(line.Spans[0].Text) + lines[idx]
}

// bodyLineCounts returns the number of body lines of each block.
func bodyLineCounts(doc render.Document) []int {
	counts := make([]int, len(doc.Blocks))
	for _, l := range doc.Lines {
		if l.Kind == render.KindCodeBody && l.Block >= 0 && l.Block < len(counts) {
			counts[l.Block]++
		}
	}
	return counts
}

// wrapRow word-wraps s, hard-wrapping words longer than width.
func wrapRow(s string, width int) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(wrap.String(wordwrap.String(s, width), width), "\n")
}
