// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pommersche92/lazyllama/internal/config"
	"github.com/Pommersche92/lazyllama/internal/conversation"
	"github.com/Pommersche92/lazyllama/internal/logging"
	"github.com/Pommersche92/lazyllama/internal/ollama"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeLister struct {
	models []string
	err    error
	calls  int
}

func (l *fakeLister) ModelNames(ctx context.Context) ([]string, error) {
	l.calls++
	return l.models, l.err
}

type batch struct {
	frags []string
	err   error
}

type fakeStream struct {
	batches []batch
	closed  bool
}

func (s *fakeStream) Next() ([]string, error) {
	if len(s.batches) == 0 {
		return nil, io.EOF
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b.frags, b.err
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type fakeGen struct {
	streams map[string]*fakeStream
	err     error
	prompts []string
}

func (g *fakeGen) Generate(ctx context.Context, model, prompt string) (conversation.Stream, error) {
	g.prompts = append(g.prompts, model+":"+prompt)
	if g.err != nil {
		return nil, g.err
	}
	s, ok := g.streams[model]
	if !ok {
		return &fakeStream{}, nil
	}
	return s, nil
}

type fakeRecorder struct {
	exchanges []conversation.Exchange
}

func (r *fakeRecorder) Record(ctx context.Context, ex conversation.Exchange) error {
	r.exchanges = append(r.exchanges, ex)
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.UI.Theme = "dark"
	cfg.UI.ShowBanner = false
	cfg.UI.Highlight = false
	return cfg
}

func newTestModel(t *testing.T, lister ModelLister, gen conversation.Generator, rec conversation.Recorder) Model {
	t.Helper()
	m := New(context.Background(), Options{
		Config:    testConfig(),
		Lister:    lister,
		Generator: gen,
		Recorder:  rec,
		Logger:    logging.Discard(),
	})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if b, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range b {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// drive feeds the messages produced by cmd back into m until the exchange
// settles. Timer messages are dropped.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := runCmd(cmd)
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 100, "message loop did not settle")
		msg := queue[0]
		queue = queue[1:]
		switch msg.(type) {
		case spinner.TickMsg, tickMsg:
			continue
		}
		next, c := m.Update(msg)
		m = next.(Model)
		queue = append(queue, runCmd(c)...)
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func withModels(t *testing.T, m Model, models ...string) Model {
	t.Helper()
	return update(t, m, ModelsLoadedMsg{Models: models})
}

// =============================================================================
// MODEL LIST
// =============================================================================

func TestModelsLoaded_SelectsFirst(t *testing.T) {
	m := newTestModel(t, nil, nil, nil)
	m = withModels(t, m, "llama3", "mistral")

	assert.Equal(t, []string{"llama3", "mistral"}, m.sess.Models)
	assert.Equal(t, "llama3", m.sess.ActiveModel())
	assert.Equal(t, "2 models", m.status)
}

func TestModelsLoaded_PrefersConfiguredDefault(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultModel = "mistral"
	m := New(context.Background(), Options{Config: cfg, Logger: logging.Discard()})
	m = withModels(t, m, "llama3", "mistral")
	assert.Equal(t, "mistral", m.sess.ActiveModel())

	// later refreshes do not jump back to the default
	m.sess.SelectIndex(0)
	m = withModels(t, m, "llama3", "mistral")
	assert.Equal(t, "llama3", m.sess.ActiveModel())
}

func TestModelsLoaded_ErrorKeepsList(t *testing.T) {
	m := newTestModel(t, nil, nil, nil)
	m = withModels(t, m, "llama3")
	m = update(t, m, ModelsLoadedMsg{Err: ollama.ErrNotRunning})

	assert.Equal(t, []string{"llama3"}, m.sess.Models)
	assert.True(t, m.statusIsErr)
	assert.Contains(t, m.status, "not reachable")
}

func TestModelsLoaded_Empty(t *testing.T) {
	m := newTestModel(t, nil, nil, nil)
	m = withModels(t, m)
	assert.False(t, m.sess.HasSelection())
	assert.Contains(t, m.status, "no models installed")
}

func TestRefresh_Throttled(t *testing.T) {
	lister := &fakeLister{models: []string{"a", "b"}}
	m := newTestModel(t, lister, nil, nil)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	m = drive(t, m, cmd)
	assert.Equal(t, []string{"a", "b"}, m.sess.Models)

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Nil(t, cmd)
	assert.Equal(t, "refresh throttled", m.status)
	assert.Equal(t, 1, lister.calls)
}

func TestSwitchModels_KeepsSeparateInputs(t *testing.T) {
	m := newTestModel(t, nil, nil, nil)
	m = withModels(t, m, "a", "b")

	m = typeText(t, m, "for a")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "b", m.sess.ActiveModel())
	assert.Equal(t, "", m.sess.Input.String())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "for a", m.sess.Input.String())
}

// =============================================================================
// EDITING
// =============================================================================

func TestEditing_Keys(t *testing.T) {
	m := newTestModel(t, nil, nil, nil)
	m = typeText(t, m, "Hello")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = typeText(t, m, "World")
	assert.Equal(t, "Hello World", m.sess.Input.String())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}, Alt: true})
	assert.Equal(t, 6, m.sess.Input.Cursor())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Equal(t, 0, m.sess.Input.Cursor())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, "ello World", m.sess.Input.String())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, "ello ", m.sess.Input.String())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "ello", m.sess.Input.String())
}

func TestEditing_RuneBatchFlattensLineBreaks(t *testing.T) {
	m := newTestModel(t, nil, nil, nil)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a\nb")})
	assert.Equal(t, "a b", m.sess.Input.String())
}

// =============================================================================
// STREAMING
// =============================================================================

func TestSubmit_StreamsIntoTranscript(t *testing.T) {
	gen := &fakeGen{streams: map[string]*fakeStream{
		"llama3": {batches: []batch{{frags: []string{"Hello"}}, {frags: []string{" world"}}}},
	}}
	rec := &fakeRecorder{}
	m := newTestModel(t, nil, gen, rec)
	m = withModels(t, m, "llama3")
	m = typeText(t, m, "hi")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.sess.Loading)
	assert.True(t, m.sess.Input.IsEmpty())

	m = drive(t, m, cmd)
	assert.False(t, m.sess.Loading)
	assert.Equal(t, "\nYOU: hi\n\nAI: Hello world\n---\n", m.sess.Transcript)
	assert.True(t, gen.streams["llama3"].closed)
	require.Len(t, rec.exchanges, 1)
	assert.Equal(t, "Hello world", rec.exchanges[0].Reply)
}

func TestSubmit_EmptyInputIgnored(t *testing.T) {
	gen := &fakeGen{}
	m := newTestModel(t, nil, gen, nil)
	m = withModels(t, m, "llama3")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.sess.Loading)
	assert.Empty(t, gen.prompts)
}

func TestSubmit_OpenFailure(t *testing.T) {
	gen := &fakeGen{err: ollama.ErrModelNotFound}
	m := newTestModel(t, nil, gen, nil)
	m = withModels(t, m, "llama3")
	m = typeText(t, m, "hi")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drive(t, m, cmd)

	assert.False(t, m.sess.Loading)
	assert.Equal(t, "\nYOU: hi\n\nAI: ", m.sess.Transcript)
	assert.True(t, m.statusIsErr)
	assert.Contains(t, m.status, "model not found")
}

func TestSubmit_MalformedBatchSkipped(t *testing.T) {
	gen := &fakeGen{streams: map[string]*fakeStream{
		"llama3": {batches: []batch{
			{frags: []string{"A"}},
			{err: ollama.ErrMalformedChunk},
			{frags: []string{"B"}},
		}},
	}}
	m := newTestModel(t, nil, gen, nil)
	m = withModels(t, m, "llama3")
	m = typeText(t, m, "x")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drive(t, m, cmd)
	assert.Equal(t, "\nYOU: x\n\nAI: AB\n---\n", m.sess.Transcript)
	assert.False(t, m.statusIsErr)
}

func TestSubmit_MidStreamErrorEnds(t *testing.T) {
	gen := &fakeGen{streams: map[string]*fakeStream{
		"llama3": {batches: []batch{
			{frags: []string{"par"}, err: errors.New("connection reset")},
			{frags: []string{"never"}},
		}},
	}}
	m := newTestModel(t, nil, gen, nil)
	m = withModels(t, m, "llama3")
	m = typeText(t, m, "x")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drive(t, m, cmd)
	assert.Equal(t, "\nYOU: x\n\nAI: par\n---\n", m.sess.Transcript)
	assert.False(t, m.sess.Loading)
	assert.True(t, m.statusIsErr)
}

func TestLoading_BlocksSwitchAndClear(t *testing.T) {
	gen := &fakeGen{}
	m := newTestModel(t, nil, gen, nil)
	m = withModels(t, m, "a", "b")
	m = typeText(t, m, "q")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.sess.Loading)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "a", m.sess.ActiveModel())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotEmpty(t, m.sess.Transcript)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestQuit_WhileLoadingFramesReply(t *testing.T) {
	gen := &fakeGen{}
	rec := &fakeRecorder{}
	m := newTestModel(t, nil, gen, rec)
	m = withModels(t, m, "a")
	m = typeText(t, m, "q")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	stream := &fakeStream{}
	m = update(t, m, streamOpenedMsg{stream: stream})
	m = update(t, m, FragmentMsg{Fragments: []string{"partial"}})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.sess.Loading)
	assert.Equal(t, "\nYOU: q\n\nAI: partial"+conversation.Separator, m.sess.Transcript)
	assert.True(t, stream.closed)
	require.Len(t, rec.exchanges, 1)
	assert.ErrorIs(t, rec.exchanges[0].Err, context.Canceled)
}

// =============================================================================
// SCROLL / CLEAR / COPY
// =============================================================================

func TestScroll_PageKeys(t *testing.T) {
	m := newTestModel(t, nil, nil, nil)
	m = withModels(t, m, "a")
	m.sess.Transcript = strings.Repeat("line\n", 200)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	bottom := m.sess.Scroll
	require.Greater(t, bottom, 0)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.False(t, m.sess.Autoscroll)
	assert.Equal(t, bottom-5, m.sess.Scroll)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, bottom, m.sess.Scroll, "scroll is clamped to the last page")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, m.sess.Autoscroll)
}

func TestClear_ResetsActiveTranscript(t *testing.T) {
	m := newTestModel(t, nil, nil, nil)
	m = withModels(t, m, "a", "b")
	m.sess.Transcript = "old"
	m.sess.Autoscroll = false

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, "", m.sess.Transcript)
	assert.True(t, m.sess.Autoscroll)
}

func TestCopy_LastReply(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	m := newTestModel(t, nil, nil, nil)
	m = withModels(t, m, "a")
	m.sess.Transcript = "\nYOU: q\n\nAI: the answer" + conversation.Separator

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	m = drive(t, m, cmd)
	assert.Equal(t, "the answer", copied)
	assert.Equal(t, "copied 10 characters", m.status)
}

func TestCopy_NothingToCopy(t *testing.T) {
	m := newTestModel(t, nil, nil, nil)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Nil(t, cmd)
	assert.Equal(t, "nothing to copy", m.status)
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func TestConfigReloaded(t *testing.T) {
	m := newTestModel(t, nil, nil, nil)
	cfg := testConfig()
	cfg.UI.ScrollStep = 9
	cfg.Debug = true

	m = update(t, m, ConfigReloadedMsg{Config: cfg})
	assert.Equal(t, 9, m.scrollStep())
	assert.True(t, m.debug)
	assert.Equal(t, "config reloaded", m.status)

	m = update(t, m, ConfigReloadedMsg{Err: errors.New("bad toml")})
	assert.True(t, m.statusIsErr)
	assert.Equal(t, 9, m.scrollStep())
}
