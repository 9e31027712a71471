// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	lru "github.com/hashicorp/golang-lru/v2"
)

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// DefaultCacheBlocks is how many highlighted blocks a Highlighter keeps.
// Every frame visits every block, so it must exceed the block count of a
// long conversation.
const DefaultCacheBlocks = 2048

type highlightKey struct {
	lang string
	code string
}

// Highlighter colors fenced code one line at a time so each line can keep
// the " │ " frame prefix. Results are cached per (lang, code) because the
// transcript is re-rendered on every frame.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
	cache     *lru.Cache[highlightKey, []string]
}

// NewHighlighter returns a highlighter for the named chroma style and
// formatter, falling back to chroma's defaults for unknown names.
func NewHighlighter(style, formatter string) *Highlighter {
	return NewHighlighterSize(style, formatter, DefaultCacheBlocks)
}

// NewHighlighterSize is NewHighlighter with a cache of size blocks, evicting
// the least recently used.
func NewHighlighterSize(style, formatter string, size int) *Highlighter {
	s := chromaStyles.Get(style)
	if s == nil {
		s = chromaStyles.Fallback
	}
	f := formatters.Get(formatter)
	if f == nil {
		f = formatters.Fallback
	}
	if size < 1 {
		size = 1
	}
	// only errors on a non-positive size
	cache, _ := lru.New[highlightKey, []string](size)
	return &Highlighter{style: s, formatter: f, cache: cache}
}

// Lines highlights code and returns one string per line. It returns nil if
// highlighting fails or produces a line count other than want, in which
// case the caller renders plain text.
func (h *Highlighter) Lines(lang, code string, want int) []string {
	if h == nil || want == 0 {
		return nil
	}
	key := highlightKey{lang: lang, code: code}
	if lines, ok := h.cache.Get(key); ok {
		if len(lines) != want {
			return nil
		}
		return lines
	}

	lines := h.highlight(lang, code)
	h.cache.Add(key, lines)
	if len(lines) != want {
		return nil
	}
	return lines
}

func (h *Highlighter) highlight(lang, code string) []string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil
	}

	var out []string
	var buf strings.Builder
	for _, line := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		tokens := make([]chroma.Token, 0, len(line))
		for _, tok := range line {
			tok.Value = strings.TrimRight(tok.Value, "\r\n")
			if tok.Value != "" {
				tokens = append(tokens, tok)
			}
		}
		buf.Reset()
		if err := h.formatter.Format(&buf, h.style, chroma.Literator(tokens...)); err != nil {
			return nil
		}
		out = append(out, strings.TrimRight(buf.String(), "\r\n"))
	}
	return out
}
