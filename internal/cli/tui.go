// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Pommersche92/lazyllama/internal/config"
	"github.com/Pommersche92/lazyllama/internal/conversation"
	"github.com/Pommersche92/lazyllama/internal/logging"
	"github.com/Pommersche92/lazyllama/internal/ui/chat"
)

// runTUI starts the full-screen interface and saves histories after it
// exits.
func runTUI(ctx context.Context, app *App) error {
	if err := RequiresTTY("start the TUI"); err != nil {
		return err
	}
	dir, err := app.dataDir()
	if err != nil {
		return err
	}

	// the TUI owns the terminal; logs go to a file
	logger, logFile, err := logging.OpenFile(dir, app.Config.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()
	ctx = logging.Install(ctx, logger)
	logger.Info("starting", "version", app.Version, "ollama", app.Config.Ollama.URL)

	client := app.newClient()

	var recorder conversation.Recorder
	arc, err := app.openArchive(dir)
	if err != nil {
		logger.Warn("archive disabled", "error", err)
	} else if arc != nil {
		defer arc.Close()
		recorder = arc
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := chat.New(ctx, chat.Options{
		Config:    app.Config,
		Lister:    client,
		Generator: conversation.OllamaGenerator{Client: client},
		Recorder:  recorder,
		Logger:    logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if app.ConfigFound {
		w, err := config.NewWatcher(app.ConfigPath, config.DefaultDebounce, func(cfg *config.Config, err error) {
			p.Send(chat.ConfigReloadedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			logger.Warn("config watch disabled", "error", err)
		} else {
			go w.Run(ctx)
		}
	}

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	m, ok := final.(chat.Model)
	if !ok {
		return nil
	}
	paths, err := app.saveOnExit(m.Session(), dir)
	for _, path := range paths {
		fmt.Fprintln(os.Stdout, successStyle.Render("saved")+" "+path)
	}
	if err != nil {
		logger.Error("failed to save history", "error", err)
		return err
	}
	logger.Info("exited", "files", len(paths))
	return nil
}
