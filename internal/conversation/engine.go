// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation drives one prompt/response exchange against a model
// and writes it into the active transcript.
//
// The exchange can be driven two ways. The TUI calls Begin, then Append for
// each batch it receives from its own command loop, then Finish. Line-mode
// callers use Submit, which runs the same steps synchronously.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"pkt.systems/pslog"

	"github.com/Pommersche92/lazyllama/internal/ollama"
	"github.com/Pommersche92/lazyllama/internal/session"
)

// Transcript framing.
const (
	Separator = "\n---\n"
)

// PromptHeader returns the text appended to the transcript when prompt is
// sent.
func PromptHeader(prompt string) string {
	return "\nYOU: " + prompt + "\n\nAI: "
}

// LastReply returns the most recent AI reply in transcript, without the
// trailing separator. It returns "" if there is none.
func LastReply(transcript string) string {
	const label = "\n\nAI: "
	i := strings.LastIndex(transcript, label)
	if i < 0 {
		return ""
	}
	reply := transcript[i+len(label):]
	if j := strings.Index(reply, Separator); j >= 0 {
		reply = reply[:j]
	}
	return reply
}

// ErrBusy is returned by Submit when an exchange is already running or no
// model is selected.
var ErrBusy = errors.New("no model selected or a response is in progress")

// =============================================================================
// COLLABORATORS
// =============================================================================

// Stream yields batches of fragments until io.EOF.
type Stream interface {
	Next() ([]string, error)
	Close() error
}

// Generator opens a streaming completion.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (Stream, error)
}

// Redrawer is called after every appended batch.
type Redrawer func(sess *session.Session)

// Exchange is a completed prompt/response pair.
type Exchange struct {
	Model    string
	Prompt   string
	Reply    string
	Started  time.Time
	Finished time.Time
	Err      error
}

// Recorder receives finished exchanges, for example an archive.
type Recorder interface {
	Record(ctx context.Context, ex Exchange) error
}

// OllamaGenerator adapts *ollama.Client to Generator.
type OllamaGenerator struct {
	Client *ollama.Client
}

// Generate implements Generator.
func (g OllamaGenerator) Generate(ctx context.Context, model, prompt string) (Stream, error) {
	s, err := g.Client.Generate(ctx, model, prompt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs exchanges. The zero value is usable.
type Engine struct {
	Recorder Recorder
	Logger   pslog.Logger
	Now      func() time.Time

	pending *Exchange
	reply   strings.Builder
}

// Pending returns the in-flight exchange, or nil.
func (e *Engine) Pending() *Exchange { return e.pending }

// Begin frames prompt into the transcript and marks the session loading.
// It returns the model to query, or ok=false if the exchange cannot start.
func (e *Engine) Begin(sess *session.Session, prompt string) (model string, ok bool) {
	if !sess.HasSelection() || sess.Loading {
		return "", false
	}
	model = sess.ActiveModel()

	sess.Transcript += PromptHeader(prompt)
	sess.Input.Clear()
	sess.SaveActive()

	sess.Loading = true
	sess.Autoscroll = true

	e.pending = &Exchange{Model: model, Prompt: prompt, Started: e.now()}
	e.reply.Reset()
	e.log().Debug("exchange started", "model", model, "prompt_len", len(prompt))
	return model, true
}

// Append adds fragments to the transcript in order.
func (e *Engine) Append(sess *session.Session, fragments []string) {
	for _, f := range fragments {
		sess.Transcript += f
		e.reply.WriteString(f)
	}
}

// Finish closes the exchange: separator, loading off, record saved.
// streamErr is an error that ended the stream early; it is logged and
// recorded but the exchange still completes.
func (e *Engine) Finish(ctx context.Context, sess *session.Session, streamErr error) {
	sess.Transcript += Separator
	sess.Loading = false
	sess.SaveActive()

	if streamErr != nil {
		e.log().Warn("stream ended with error", "model", sess.ActiveModel(), "error", streamErr)
	}
	e.complete(ctx, streamErr)
}

// Abort handles a stream that could not be opened. The prompt stays in the
// transcript and loading is cleared.
func (e *Engine) Abort(ctx context.Context, sess *session.Session, openErr error) error {
	sess.Loading = false
	sess.SaveActive()
	e.log().Error("failed to open stream", "model", sess.ActiveModel(), "error", openErr)
	e.complete(ctx, openErr)
	return fmt.Errorf("open stream: %w", openErr)
}

func (e *Engine) complete(ctx context.Context, err error) {
	ex := e.pending
	e.pending = nil
	if ex == nil {
		return
	}
	ex.Reply = e.reply.String()
	ex.Finished = e.now()
	ex.Err = err
	e.reply.Reset()

	if e.Recorder == nil {
		return
	}
	if rerr := e.Recorder.Record(ctx, *ex); rerr != nil {
		e.log().Warn("failed to record exchange", "model", ex.Model, "error", rerr)
	}
}

// Submit runs a whole exchange synchronously, calling redraw after each
// batch. Malformed batches are skipped. It returns ErrBusy when Begin
// refuses, and a wrapped error when the stream cannot be opened.
func (e *Engine) Submit(ctx context.Context, sess *session.Session, prompt string, gen Generator, redraw Redrawer) error {
	model, ok := e.Begin(sess, prompt)
	if !ok {
		return ErrBusy
	}

	stream, err := gen.Generate(ctx, model, prompt)
	if err != nil {
		return e.Abort(ctx, sess, err)
	}
	defer stream.Close()

	var streamErr error
	for {
		frags, err := stream.Next()
		if err == io.EOF {
			break
		}
		if ollama.IsMalformedChunk(err) {
			e.log().Debug("skipping malformed chunk", "model", model)
			continue
		}
		if len(frags) > 0 {
			e.Append(sess, frags)
			if redraw != nil {
				redraw(sess)
			}
		}
		if err != nil {
			streamErr = err
			break
		}
	}

	e.Finish(ctx, sess, streamErr)
	if redraw != nil {
		redraw(sess)
	}
	return nil
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) log() pslog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return pslog.Ctx(context.Background())
}
