// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns a conversation transcript into styled lines.
//
// Parsing is pure: the same transcript always yields the same Document and
// nothing is cached between calls, so the chat view can re-parse on every
// frame while a response streams in.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a rendered line.
type Kind int

const (
	KindPlain Kind = iota
	KindHeading
	KindUser
	KindAI
	KindCodeHeader
	KindCodeBody
	KindCodeFooter
)

// String returns the kind name, mostly for debugging and test output.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindHeading:
		return "heading"
	case KindUser:
		return "user"
	case KindAI:
		return "ai"
	case KindCodeHeader:
		return "code-header"
	case KindCodeBody:
		return "code-body"
	case KindCodeFooter:
		return "code-footer"
	default:
		return "unknown"
	}
}

// Style is a semantic style tag. The UI maps tags to terminal colors.
type Style int

const (
	StylePlain Style = iota
	StyleHeading
	StyleUserLabel
	StyleAILabel
	StyleCode
)

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Style Style
}

// Line is one rendered row before wrapping.
type Line struct {
	Kind  Kind
	Spans []Span
	// Block is the index into Document.Blocks for code lines, -1 otherwise.
	Block int
}

// Text returns the concatenated span text.
func (l Line) Text() string {
	if len(l.Spans) == 1 {
		return l.Spans[0].Text
	}
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// CodeBlock is the content of one fenced region.
type CodeBlock struct {
	Lang string
	Code string
}

// Document is the parsed transcript.
type Document struct {
	Lines  []Line
	Blocks []CodeBlock
}

// Len returns the total rendered line count.
func (d Document) Len() int { return len(d.Lines) }

// Frame glyphs for code blocks.
const (
	DefaultLang    = "code"
	HeadingBullet  = "● "
	CodeBodyPrefix = " │ "
	CodeFooter     = " └──────────"
	UserLabel      = "YOU:"
	AILabel        = "AI: "
	fence          = "```"
)

// Parse renders a transcript into styled lines.
func Parse(transcript string) Document {
	var doc Document
	rest := transcript
	for {
		m, ok := findFence(rest)
		if !ok {
			doc.appendPlain(rest)
			return doc
		}
		doc.appendPlain(rest[:m.start])
		doc.appendBlock(m.lang, m.code)
		rest = rest[m.end:]
	}
}

// =============================================================================
// PLAIN TEXT
// =============================================================================

func (d *Document) appendPlain(text string) {
	for _, line := range splitLines(text) {
		d.Lines = append(d.Lines, styleLine(line))
	}
}

func styleLine(line string) Line {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "###"):
		title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		return Line{Kind: KindHeading, Block: -1, Spans: []Span{
			{Text: HeadingBullet + title, Style: StyleHeading},
		}}
	case strings.HasPrefix(line, UserLabel):
		return Line{Kind: KindUser, Block: -1, Spans: []Span{
			{Text: UserLabel, Style: StyleUserLabel},
			{Text: line[len(UserLabel):], Style: StylePlain},
		}}
	case strings.HasPrefix(line, "AI:"):
		return Line{Kind: KindAI, Block: -1, Spans: []Span{
			{Text: AILabel, Style: StyleAILabel},
			{Text: line[len("AI:"):], Style: StylePlain},
		}}
	default:
		return Line{Kind: KindPlain, Block: -1, Spans: []Span{{Text: line, Style: StylePlain}}}
	}
}

// splitLines splits on '\n', trims a trailing '\r' from each line and does
// not produce an empty final line for a trailing newline. "" has no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

func (d *Document) appendBlock(lang, code string) {
	if lang == "" {
		lang = DefaultLang
	}
	idx := len(d.Blocks)
	d.Blocks = append(d.Blocks, CodeBlock{Lang: lang, Code: code})

	d.Lines = append(d.Lines, Line{Kind: KindCodeHeader, Block: idx, Spans: []Span{
		{Text: CodeHeader(lang), Style: StyleCode},
	}})
	for _, l := range splitLines(code) {
		d.Lines = append(d.Lines, Line{Kind: KindCodeBody, Block: idx, Spans: []Span{
			{Text: CodeBodyPrefix, Style: StyleCode},
			{Text: l, Style: StylePlain},
		}})
	}
	d.Lines = append(d.Lines, Line{Kind: KindCodeFooter, Block: idx, Spans: []Span{
		{Text: CodeFooter, Style: StyleCode},
	}})
}

// CodeHeader returns the header row for a block tagged lang.
func CodeHeader(lang string) string {
	return " ┌── " + lang + " ──"
}

type fenceMatch struct {
	start, end int
	lang, code string
}

// findFence locates the first complete fenced block in s: an opening fence,
// an optional word-character language tag, a newline, then everything up to
// the nearest closing fence. An opener with no closer anywhere after it is
// not a match, and neither is one whose tag is not followed by a newline; in
// that case scanning resumes one byte past the opener.
func findFence(s string) (fenceMatch, bool) {
	from := 0
	for from < len(s) {
		i := strings.Index(s[from:], fence)
		if i < 0 {
			return fenceMatch{}, false
		}
		start := from + i

		// header state: tag characters then a mandatory newline
		p := start + len(fence)
		for p < len(s) {
			r, size := utf8.DecodeRuneInString(s[p:])
			if !isTagRune(r) {
				break
			}
			p += size
		}
		if p >= len(s) || s[p] != '\n' {
			from = start + 1
			continue
		}
		lang := s[start+len(fence) : p]

		// body state: shortest run up to the next fence
		bodyStart := p + 1
		j := strings.Index(s[bodyStart:], fence)
		if j < 0 {
			return fenceMatch{}, false
		}
		bodyEnd := bodyStart + j
		return fenceMatch{
			start: start,
			end:   bodyEnd + len(fence),
			lang:  lang,
			code:  s[bodyStart:bodyEnd],
		}, true
	}
	return fenceMatch{}, false
}

func isTagRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// =============================================================================
// SCROLL METRICS
// =============================================================================

// MaxScroll is the largest offset that still fills the viewport.
func MaxScroll(total, viewport int) int {
	if m := total - viewport; m > 0 {
		return m
	}
	return 0
}

// ClampScroll returns the scroll offset to use for a frame. With autoscroll
// the view is pinned to the bottom; otherwise scroll is bounded to
// [0, MaxScroll].
func ClampScroll(total, viewport, scroll int, autoscroll bool) int {
	max := MaxScroll(total, viewport)
	if autoscroll {
		return max
	}
	if scroll > max {
		return max
	}
	if scroll < 0 {
		return 0
	}
	return scroll
}
