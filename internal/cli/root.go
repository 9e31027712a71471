// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/Pommersche92/lazyllama/internal/archive"
	"github.com/Pommersche92/lazyllama/internal/config"
	"github.com/Pommersche92/lazyllama/internal/logging"
	"github.com/Pommersche92/lazyllama/internal/ollama"
	"github.com/Pommersche92/lazyllama/internal/persist"
	"github.com/Pommersche92/lazyllama/internal/session"
)

// App is the state shared by all commands once flags are parsed.
type App struct {
	Version string

	Config      *config.Config
	ConfigPath  string
	ConfigFound bool
	Logger      pslog.Logger

	// Now is used for history file names. Defaults to time.Now.
	Now func() time.Time

	configFlag   string
	logLevelFlag string
}

// Execute runs the lazyllama command line.
func Execute(ctx context.Context, version string, args []string) error {
	root := NewRootCommand(version)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	app := &App{Version: version}

	root := &cobra.Command{
		Use:   "lazyllama",
		Short: "Terminal chat client for local Ollama models",
		Long: `lazyllama is a terminal chat client for models served by Ollama.

Each installed model keeps its own conversation, input line and scroll
position; switch between them with the arrow keys. Replies stream in as they
are generated, with fenced code blocks framed and highlighted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd, false)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
	root.PersistentFlags().StringVarP(&app.configFlag, "config", "c", "", "config file (.toml or .yaml)")
	root.PersistentFlags().StringVar(&app.logLevelFlag, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newChatCommand(app),
		newModelsCommand(app),
		newHistoryCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)
	return root
}

// load reads the config and installs the console logger. With lenient set
// a broken config file falls back to the defaults so `config` subcommands
// still work.
func (a *App) load(cmd *cobra.Command, lenient bool) error {
	path, found, err := config.Resolve(a.configFlag)
	if err != nil && !lenient {
		return err
	}
	a.ConfigPath, a.ConfigFound = path, found

	cfg, err := config.Load(a.configFlag)
	if err != nil {
		if !lenient {
			return err
		}
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
	}
	if a.logLevelFlag != "" {
		cfg.Log.Level = a.logLevelFlag
	}
	a.Config = cfg

	lipgloss.SetColorProfile(colorProfile())
	a.Logger = logging.NewConsole(cmd.ErrOrStderr(), cfg.Log.Level)
	cmd.SetContext(logging.Install(cmd.Context(), a.Logger))
	return nil
}

// dataDir is where transcripts, the archive and the log file live.
func (a *App) dataDir() (string, error) {
	if a.Config.History.Dir != "" {
		return a.Config.History.Dir, nil
	}
	dir, err := persist.DataDir()
	if err != nil {
		return "", fmt.Errorf("no data directory: %w (set %s)", err, config.EnvDataDir)
	}
	return dir, nil
}

func (a *App) newClient() *ollama.Client {
	return ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL: a.Config.Ollama.URL,
		Timeout: a.Config.Timeout(),
		System:  a.Config.Ollama.System,
	})
}

// openArchive returns nil without error when archiving is off.
func (a *App) openArchive(dir string) (*archive.Archive, error) {
	if !a.Config.History.Archive {
		return nil, nil
	}
	return archive.Open(filepath.Join(dir, archive.FileName))
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// saveOnExit writes the active transcript and every model's history into
// dir. It returns the files written.
func (a *App) saveOnExit(sess *session.Session, dir string) ([]string, error) {
	if !a.Config.History.SaveOnExit {
		return nil, nil
	}
	now := a.now()

	// both writes are attempted even if the first fails
	var written []string
	path, activeErr := persist.SaveHistory(dir, sess.Transcript, now)
	if path != "" {
		written = append(written, path)
	}
	paths, modelsErr := persist.SaveModelHistories(dir, sess.Histories(), now)
	written = append(written, paths...)
	return written, errors.Join(activeErr, modelsErr)
}
