// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the pslog loggers used by the CLI and the TUI.
//
// The TUI owns the terminal, so while it runs logs go to a file in the data
// directory. Line-mode commands log to stderr.
package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"pkt.systems/pslog"
)

// FileName is the log file inside the data directory.
const FileName = "lazyllama.log"

// New returns a structured logger writing JSON lines to w.
func New(w io.Writer, level string) pslog.Logger {
	opts := pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		VerboseFields: true,
	}
	setLevel(&opts, level)
	return pslog.NewWithOptions(w, opts)
}

// NewConsole returns a human-readable logger for stderr.
func NewConsole(w io.Writer, level string) pslog.Logger {
	opts := pslog.Options{Mode: pslog.ModeConsole}
	setLevel(&opts, level)
	return pslog.NewWithOptions(w, opts)
}

// Discard returns a logger that drops everything.
func Discard() pslog.Logger {
	return New(io.Discard, "error")
}

// OpenFile opens dir/lazyllama.log for appending and returns a logger on it.
// The caller closes the returned file.
func OpenFile(dir, level string) (pslog.Logger, *os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, level), f, nil
}

// Install puts logger into ctx and routes the standard library logger
// through it, so stray log.Printf calls from dependencies do not draw over
// the TUI.
func Install(ctx context.Context, logger pslog.Logger) context.Context {
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)
	return pslog.ContextWithLogger(ctx, logger)
}

func setLevel(opts *pslog.Options, level string) {
	switch level {
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "warn":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		opts.MinLevel = pslog.InfoLevel
	}
}
