// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"
	"pkt.systems/pslog"

	"github.com/Pommersche92/lazyllama/internal/config"
	"github.com/Pommersche92/lazyllama/internal/conversation"
	"github.com/Pommersche92/lazyllama/internal/editor"
	"github.com/Pommersche92/lazyllama/internal/session"
	"github.com/Pommersche92/lazyllama/internal/ui/components"
	"github.com/Pommersche92/lazyllama/internal/ui/styles"
)

// RefreshInterval is the minimum spacing of manual model refreshes.
const RefreshInterval = 2 * time.Second

// SpinnerFrames is the thinking animation.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Options wires the model to its collaborators.
type Options struct {
	Config    *config.Config
	Lister    ModelLister
	Generator conversation.Generator
	Recorder  conversation.Recorder
	Logger    pslog.Logger
	// Now drives the cursor blink. Defaults to time.Now.
	Now editor.Clock
}

// Model is the bubbletea model for the chat screen.
type Model struct {
	ctx    context.Context
	logger pslog.Logger

	// Core state
	sess   *session.Session
	engine *conversation.Engine
	stream *streamState

	// Collaborators
	cfg     *config.Config
	lister  ModelLister
	gen     conversation.Generator
	limiter *rate.Limiter

	// Rendering
	theme       *styles.Theme
	highlighter *components.Highlighter
	keys        KeyMap
	help        help.Model
	spinner     spinner.Model
	viewport    viewport.Model

	width  int
	height int
	ready  bool

	status      string
	statusIsErr bool

	debug       bool
	debugInfo   *debugInfo
	modelsKnown bool
}

// streamState is the in-flight stream. It is shared between copies of
// Model.
type streamState struct {
	stream conversation.Stream
	cancel context.CancelFunc
}

type debugInfo struct {
	renders int
	lastKey string
}

// New creates the chat model. ctx bounds every request the model starts.
func New(ctx context.Context, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = pslog.Ctx(ctx)
	}

	sess := session.New(editor.NewBlink(opts.Now))
	sess.Autoscroll = cfg.UI.Autoscroll

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{Frames: SpinnerFrames, FPS: TickInterval}

	theme := styles.NewTheme(cfg.UI.Theme)
	h := help.New()
	h.ShortSeparator = " | "

	m := Model{
		ctx:    ctx,
		logger: logger,
		sess:   sess,
		engine: &conversation.Engine{
			Recorder: opts.Recorder,
			Logger:   logger,
		},
		stream:    &streamState{},
		cfg:       cfg,
		lister:    opts.Lister,
		gen:       opts.Generator,
		limiter:   rate.NewLimiter(rate.Every(RefreshInterval), 1),
		theme:     theme,
		keys:      DefaultKeyMap(),
		help:      h,
		spinner:   sp,
		viewport:  viewport.New(0, 0),
		debug:     cfg.Debug,
		debugInfo: &debugInfo{},
	}
	m.applyTheme()
	return m
}

// Init starts model discovery and the blink ticker.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.lister != nil {
		// the startup fetch counts against the refresh budget
		m.limiter.Allow()
		cmds = append(cmds, listModelsCmd(m.ctx, m.lister))
	}
	return tea.Batch(cmds...)
}

// Session exposes the state so the caller can persist it after the
// program exits.
func (m Model) Session() *session.Session { return m.sess }

func (m *Model) applyTheme() {
	if m.cfg.UI.Highlight {
		m.highlighter = components.NewHighlighter(m.cfg.UI.CodeStyle, m.theme.ChromaFormatter())
	} else {
		m.highlighter = nil
	}
	m.spinner.Style = m.theme.AILabel
	// the footer style wraps the whole help line
	m.help.Styles.ShortKey = m.theme.Plain
	m.help.Styles.ShortDesc = m.theme.Plain
	m.help.Styles.ShortSeparator = m.theme.Plain
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusIsErr = false
}

func (m *Model) setError(msg string, err error) {
	m.status = msg + ": " + err.Error()
	m.statusIsErr = true
}
