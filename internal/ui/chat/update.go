// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Pommersche92/lazyllama/internal/conversation"
	"github.com/Pommersche92/lazyllama/internal/ollama"
	"github.com/Pommersche92/lazyllama/internal/render"
	"github.com/Pommersche92/lazyllama/internal/ui/styles"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sess.Input.Blink().Update()
		return m, tickCmd()

	case spinner.TickMsg:
		if m.sess.Loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleResize(msg)

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case ModelsLoadedMsg:
		m = m.handleModelsLoaded(msg)

	case streamOpenedMsg:
		m, cmd = m.handleStreamOpened(msg)

	case FragmentMsg:
		m, cmd = m.handleFragments(msg)

	case ConfigReloadedMsg:
		m = m.handleConfigReloaded(msg)

	case clipboardMsg:
		if msg.err != nil {
			m.setError("copy failed", msg.err)
		} else {
			m.setStatus(fmt.Sprintf("copied %d characters", msg.chars))
		}
	}

	m.syncViewport()
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	l := m.layout()
	m.viewport.Width = l.historyInnerW
	m.viewport.Height = l.historyInnerH
	m.help.Width = max(m.width-2, 0)
	return m
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.debugInfo.lastKey = msg.String()
	if m.debug {
		m.logger.Debug("key", "key", msg.String(), "type", int(msg.Type), "alt", msg.Alt)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdownStream()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Clear):
		if m.sess.Loading {
			return m, nil
		}
		m.sess.ClearActive()
		m.setStatus("conversation cleared")
		return m, nil

	case key.Matches(msg, m.keys.ToggleScroll):
		m.sess.Autoscroll = !m.sess.Autoscroll
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.sess.Autoscroll = false
		m.sess.Scroll -= m.scrollStep()
		if m.sess.Scroll < 0 {
			m.sess.Scroll = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.sess.Autoscroll = false
		m.sess.Scroll += m.scrollStep()
		return m, nil

	case key.Matches(msg, m.keys.PrevModel):
		if !m.sess.Loading {
			m.sess.SelectPrevious()
		}
		return m, nil

	case key.Matches(msg, m.keys.NextModel):
		if !m.sess.Loading {
			m.sess.SelectNext()
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Copy):
		reply := conversation.LastReply(m.sess.Transcript)
		if reply == "" {
			m.setStatus("nothing to copy")
			return m, nil
		}
		return m, copyCmd(reply)

	case key.Matches(msg, m.keys.Refresh):
		return m.refreshModels()
	}

	m.editInput(msg)
	return m, nil
}

// editInput applies line editing keys and printable input.
func (m Model) editInput(msg tea.KeyMsg) {
	in := m.sess.Input
	switch {
	case key.Matches(msg, m.keys.Backspace):
		in.Backspace()
	case key.Matches(msg, m.keys.Delete):
		in.DeleteForward()
	case key.Matches(msg, m.keys.Left):
		in.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		in.MoveRight()
	case key.Matches(msg, m.keys.Home):
		in.MoveHome()
	case key.Matches(msg, m.keys.End):
		in.MoveEnd()
	case key.Matches(msg, m.keys.WordLeft):
		in.MoveWordLeft()
	case key.Matches(msg, m.keys.WordRight):
		in.MoveWordRight()
	case key.Matches(msg, m.keys.DeleteWordLeft):
		in.DeleteWordLeft()
	case key.Matches(msg, m.keys.DeleteWordRight):
		in.DeleteWordRight()
	case msg.Type == tea.KeySpace:
		in.Insert(' ')
	case msg.Type == tea.KeyRunes && !msg.Alt:
		// line breaks inside one rune batch would break the single-line
		// field; a pasted line break between batches arrives as Enter
		in.InsertString(strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' || r == '\t' {
				return ' '
			}
			return r
		}, string(msg.Runes)))
	}
}

func (m Model) scrollStep() int {
	if m.cfg.UI.ScrollStep > 0 {
		return m.cfg.UI.ScrollStep
	}
	return 5
}

// =============================================================================
// EXCHANGE
// =============================================================================

func (m Model) submit() (Model, tea.Cmd) {
	if m.sess.Input.IsEmpty() || m.sess.Loading {
		return m, nil
	}
	if m.gen == nil {
		m.setStatus("no model backend configured")
		return m, nil
	}
	prompt := m.sess.Input.String()
	model, ok := m.engine.Begin(m.sess, prompt)
	if !ok {
		m.setStatus("no model selected")
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.stream.cancel = cancel
	m.setStatus("")
	m.logger.Info("prompt sent", "model", model)
	return m, tea.Batch(openStreamCmd(ctx, m.gen, model, prompt), m.spinner.Tick)
}

func (m Model) handleStreamOpened(msg streamOpenedMsg) (Model, tea.Cmd) {
	if !m.sess.Loading {
		// quit raced the open
		if msg.stream != nil {
			msg.stream.Close()
		}
		return m, nil
	}
	if msg.err != nil {
		err := m.engine.Abort(m.ctx, m.sess, msg.err)
		m.releaseStream()
		m.setError("request failed", describeClientError(err))
		return m, nil
	}
	m.stream.stream = msg.stream
	return m, waitFragmentsCmd(msg.stream)
}

func (m Model) handleFragments(msg FragmentMsg) (Model, tea.Cmd) {
	if m.stream.stream == nil {
		return m, nil
	}
	if len(msg.Fragments) > 0 {
		m.engine.Append(m.sess, msg.Fragments)
	}

	switch {
	case msg.Done:
		m.finishStream(nil)
		return m, nil
	case ollama.IsMalformedChunk(msg.Err):
		m.logger.Debug("skipping malformed chunk", "model", m.sess.ActiveModel())
		return m, waitFragmentsCmd(m.stream.stream)
	case msg.Err != nil:
		m.finishStream(msg.Err)
		m.setError("stream ended early", describeClientError(msg.Err))
		return m, nil
	}
	return m, waitFragmentsCmd(m.stream.stream)
}

func (m Model) finishStream(err error) {
	m.engine.Finish(m.ctx, m.sess, err)
	m.releaseStream()
}

func (m Model) releaseStream() {
	if m.stream.stream != nil {
		m.stream.stream.Close()
	}
	if m.stream.cancel != nil {
		m.stream.cancel()
	}
	*m.stream = streamState{}
}

// shutdownStream ends an in-flight exchange so its partial reply is framed
// and saved before the program exits.
func (m Model) shutdownStream() {
	if !m.sess.Loading {
		return
	}
	if m.stream.cancel != nil {
		m.stream.cancel()
	}
	m.finishStream(context.Canceled)
}

// =============================================================================
// MODEL LIST
// =============================================================================

func (m Model) refreshModels() (Model, tea.Cmd) {
	if m.lister == nil || m.sess.Loading {
		return m, nil
	}
	if !m.limiter.Allow() {
		m.setStatus("refresh throttled")
		return m, nil
	}
	m.setStatus("refreshing models...")
	return m, listModelsCmd(m.ctx, m.lister)
}

func (m Model) handleModelsLoaded(msg ModelsLoadedMsg) Model {
	if msg.Err != nil {
		m.logger.Warn("model refresh failed", "error", msg.Err)
		m.setError("could not list models", describeClientError(msg.Err))
		return m
	}
	if m.sess.Loading {
		m.setStatus("model list ignored while a reply is streaming")
		return m
	}

	m.sess.ReplaceModels(msg.Models)
	if !m.modelsKnown && m.cfg.DefaultModel != "" {
		m.sess.SelectModel(m.cfg.DefaultModel)
	}
	m.modelsKnown = true

	m.logger.Info("models loaded", "count", len(m.sess.Models))
	if len(m.sess.Models) == 0 {
		m.setStatus("no models installed; run `ollama pull <model>`")
	} else {
		m.setStatus(fmt.Sprintf("%d models", len(m.sess.Models)))
	}
	return m
}

// =============================================================================
// CONFIG
// =============================================================================

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) Model {
	if msg.Err != nil {
		m.logger.Warn("config reload failed", "error", msg.Err)
		m.setError("config reload failed", msg.Err)
		return m
	}
	if msg.Config == nil {
		return m
	}
	m.cfg = msg.Config
	m.debug = msg.Config.Debug
	m.theme = styles.NewTheme(msg.Config.UI.Theme)
	m.applyTheme()
	if m.ready {
		m = m.handleResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	m.logger.Info("config reloaded")
	m.setStatus("config reloaded")
	return m
}

// =============================================================================
// VIEWPORT
// =============================================================================

// syncViewport re-renders the transcript into the viewport and writes the
// clamped scroll offset back into the session.
func (m *Model) syncViewport() {
	if !m.ready || m.viewport.Width <= 0 || m.viewport.Height <= 0 {
		return
	}
	rows := m.transcriptRows()
	m.sess.Scroll = render.ClampScroll(len(rows), m.viewport.Height, m.sess.Scroll, m.sess.Autoscroll)
	m.viewport.SetContent(strings.Join(rows, "\n"))
	m.viewport.SetYOffset(m.sess.Scroll)
}

func describeClientError(err error) error {
	switch {
	case ollama.IsNotRunning(err):
		return fmt.Errorf("ollama is not reachable (is `ollama serve` running?)")
	case ollama.IsModelNotFound(err):
		return fmt.Errorf("model not found")
	case ollama.IsTimeout(err):
		return fmt.Errorf("request timed out")
	}
	return err
}
