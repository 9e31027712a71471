// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/Pommersche92/lazyllama/internal/conversation"
	"github.com/Pommersche92/lazyllama/internal/editor"
	"github.com/Pommersche92/lazyllama/internal/persist"
	"github.com/Pommersche92/lazyllama/internal/session"
	"github.com/Pommersche92/lazyllama/internal/ui/chat"
)

// historyFileName holds the line-mode prompt history inside the data dir.
const historyFileName = "chat_history"

func newChatCommand(app *App) *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a model in line mode",
		Long: `Chat with a model without the full-screen interface.

Replies stream to stdout. Commands:
  /models        list models (* marks the active one)
  /model NAME    switch model; each model keeps its own history
  /clear         clear the active model's history
  /save          write the active history to the data directory
  /quit          exit (also Ctrl+D)

Ctrl+C cancels a reply that is streaming.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), app, model, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "model to use (default: default_model, else the first installed)")
	return cmd
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader reads prompts. *liner.State satisfies it.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// chatInput is a liner state with a history file.
type chatInput struct {
	*liner.State
	historyFile string
}

func newChatInput(dir string) *chatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	in := &chatInput{State: line, historyFile: filepath.Join(dir, historyFileName)}
	if f, err := os.Open(in.historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return in
}

// Close saves the history and restores the terminal.
func (c *chatInput) Close() error {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0o755); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			c.WriteHistory(f)
			f.Close()
		}
	}
	return c.State.Close()
}

// =============================================================================
// CHAT LOOP
// =============================================================================

type chatREPL struct {
	app    *App
	sess   *session.Session
	engine *conversation.Engine
	gen    conversation.Generator
	dir    string
	out    io.Writer
}

func runChat(ctx context.Context, app *App, model string, out io.Writer) error {
	dir, err := app.dataDir()
	if err != nil {
		return err
	}
	client := app.newClient()

	var recorder conversation.Recorder
	arc, err := app.openArchive(dir)
	if err != nil {
		app.Logger.Warn("archive disabled", "error", err)
	} else if arc != nil {
		defer arc.Close()
		recorder = arc
	}

	repl, err := newChatREPL(ctx, app, client, conversation.OllamaGenerator{Client: client}, model, out)
	if err != nil {
		return err
	}
	repl.dir = dir
	repl.engine.Recorder = recorder

	in := newChatInput(dir)
	err = repl.run(ctx, in)
	in.Close()

	paths, saveErr := app.saveOnExit(repl.sess, dir)
	for _, p := range paths {
		fmt.Fprintln(out, mutedStyle.Render("saved "+p))
	}
	return errors.Join(err, saveErr)
}

func newChatREPL(ctx context.Context, app *App, lister chat.ModelLister, gen conversation.Generator, model string, out io.Writer) (*chatREPL, error) {
	models, err := lister.ModelNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if len(models) == 0 {
		return nil, errors.New("no models installed; run `ollama pull <model>` first")
	}

	sess := session.New(editor.NewBlink(nil))
	sess.ReplaceModels(models)

	switch {
	case model != "":
		if !sess.SelectModel(model) {
			return nil, fmt.Errorf("model %q is not installed", model)
		}
	case app.Config.DefaultModel != "":
		sess.SelectModel(app.Config.DefaultModel)
	}

	return &chatREPL{
		app:    app,
		sess:   sess,
		engine: &conversation.Engine{Logger: app.Logger},
		gen:    gen,
		out:    out,
	}, nil
}

func (r *chatREPL) run(ctx context.Context, in lineReader) error {
	fmt.Fprintf(r.out, "Chatting with %s. Type /help for commands.\n", aiStyle.Render(r.sess.ActiveModel()))

	for {
		line, err := in.Prompt(r.sess.ActiveModel() + "> ")
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D, or end of piped input
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		in.AppendHistory(line)

		if strings.HasPrefix(line, "/") {
			if quit := r.command(line); quit {
				return nil
			}
			continue
		}
		if err := r.ask(ctx, line); err != nil {
			fmt.Fprintf(r.out, "\n%s %v\n", errorStyle.Render("[Error]"), err)
		}
	}
}

// ask streams one reply to out. Ctrl+C cancels it.
func (r *chatREPL) ask(ctx context.Context, prompt string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	printed := len(r.sess.Transcript) + len(conversation.PromptHeader(prompt))
	fmt.Fprint(r.out, aiStyle.Render("AI:")+" ")
	return r.engine.Submit(ctx, r.sess, prompt, r.gen, func(s *session.Session) {
		if len(s.Transcript) > printed {
			io.WriteString(r.out, s.Transcript[printed:])
			printed = len(s.Transcript)
		}
	})
}

// command runs a slash command and reports whether the loop should end.
func (r *chatREPL) command(line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return true

	case "/help", "/?":
		fmt.Fprintln(r.out, "/models, /model NAME, /clear, /save, /quit")

	case "/models":
		for i, m := range r.sess.Models {
			marker := "  "
			if i == r.sess.Selected {
				marker = "* "
			}
			fmt.Fprintln(r.out, marker+m)
		}

	case "/model":
		if len(fields) < 2 {
			fmt.Fprintln(r.out, "usage: /model NAME")
			break
		}
		if !r.sess.SelectModel(fields[1]) {
			fmt.Fprintf(r.out, "%s model %q is not installed\n", errorStyle.Render("[Error]"), fields[1])
			break
		}
		fmt.Fprintf(r.out, "switched to %s\n", aiStyle.Render(r.sess.ActiveModel()))

	case "/clear":
		r.sess.ClearActive()
		fmt.Fprintln(r.out, "history cleared")

	case "/save":
		if r.dir == "" {
			fmt.Fprintf(r.out, "%s no data directory\n", errorStyle.Render("[Error]"))
			break
		}
		path, err := persist.SaveHistory(r.dir, r.sess.Transcript, r.app.now())
		switch {
		case err != nil:
			fmt.Fprintf(r.out, "%s %v\n", errorStyle.Render("[Error]"), err)
		case path == "":
			fmt.Fprintln(r.out, "nothing to save")
		default:
			fmt.Fprintln(r.out, successStyle.Render("saved")+" "+path)
		}

	default:
		fmt.Fprintf(r.out, "unknown command %s (try /help)\n", fields[0])
	}
	return false
}
