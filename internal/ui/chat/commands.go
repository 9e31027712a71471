// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Pommersche92/lazyllama/internal/conversation"
)

// TickInterval is the redraw period for the cursor blink.
const TickInterval = 100 * time.Millisecond

// listTimeout bounds a model list request.
const listTimeout = 10 * time.Second

// ModelLister returns the installed model ids.
type ModelLister interface {
	ModelNames(ctx context.Context) ([]string, error)
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// =============================================================================
// COMMANDS
// =============================================================================

func listModelsCmd(ctx context.Context, lister ModelLister) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, listTimeout)
		defer cancel()
		models, err := lister.ModelNames(ctx)
		return ModelsLoadedMsg{Models: models, Err: err}
	}
}

func openStreamCmd(ctx context.Context, gen conversation.Generator, model, prompt string) tea.Cmd {
	return func() tea.Msg {
		stream, err := gen.Generate(ctx, model, prompt)
		return streamOpenedMsg{stream: stream, err: err}
	}
}

// waitFragmentsCmd blocks for the next batch. It only reads from the
// stream; the session is touched in Update.
func waitFragmentsCmd(stream conversation.Stream) tea.Cmd {
	return func() tea.Msg {
		frags, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return FragmentMsg{Fragments: frags, Done: true}
		}
		return FragmentMsg{Fragments: frags, Err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{chars: utf8.RuneCountInString(text), err: writeClipboard(text)}
	}
}
