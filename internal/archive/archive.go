// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive keeps a SQLite log of every prompt/response exchange so
// past conversations can be listed from the command line.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Pommersche92/lazyllama/internal/conversation"
)

// FileName is the archive database name inside the data directory.
const FileName = "archive.db"

const schema = `
CREATE TABLE IF NOT EXISTS exchanges (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT    NOT NULL,
	model       TEXT    NOT NULL,
	prompt      TEXT    NOT NULL,
	reply       TEXT    NOT NULL,
	error       TEXT    NOT NULL DEFAULT '',
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exchanges_model ON exchanges(model);
CREATE INDEX IF NOT EXISTS idx_exchanges_started ON exchanges(started_at);
`

// Entry is one archived exchange.
type Entry struct {
	ID        int64
	SessionID string
	Model     string
	Prompt    string
	Reply     string
	Error     string
	Started   time.Time
	Finished  time.Time
}

// Duration is how long the response took.
func (e Entry) Duration() time.Duration { return e.Finished.Sub(e.Started) }

// Archive is an open exchange database. Every process run gets its own
// session id so exchanges from one run can be grouped.
type Archive struct {
	db        *sql.DB
	sessionID string
}

// Open opens or creates the archive at path.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	// single writer; SQLite serializes anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Archive{db: db, sessionID: uuid.New().String()}, nil
}

// SessionID identifies this process run.
func (a *Archive) SessionID() string { return a.sessionID }

// Close closes the database.
func (a *Archive) Close() error { return a.db.Close() }

// Record stores a finished exchange. It implements conversation.Recorder.
func (a *Archive) Record(ctx context.Context, ex conversation.Exchange) error {
	errText := ""
	if ex.Err != nil {
		errText = ex.Err.Error()
	}
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO exchanges (session_id, model, prompt, reply, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.sessionID, ex.Model, ex.Prompt, ex.Reply, errText,
		ex.Started.UnixMilli(), ex.Finished.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record exchange: %w", err)
	}
	return nil
}

// Query filters List results. Zero values mean no filter.
type Query struct {
	Model     string
	SessionID string
	Limit     int
}

// List returns exchanges newest first.
func (a *Archive) List(ctx context.Context, q Query) ([]Entry, error) {
	stmt := `SELECT id, session_id, model, prompt, reply, error, started_at, finished_at
		FROM exchanges WHERE 1=1`
	var args []any
	if q.Model != "" {
		stmt += " AND model = ?"
		args = append(args, q.Model)
	}
	if q.SessionID != "" {
		stmt += " AND session_id = ?"
		args = append(args, q.SessionID)
	}
	stmt += " ORDER BY started_at DESC, id DESC"
	if q.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := a.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                 Entry
			started, finished int64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Model, &e.Prompt, &e.Reply, &e.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		e.Started = time.UnixMilli(started)
		e.Finished = time.UnixMilli(finished)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("exchange not found")

// Get returns one exchange by id.
func (a *Archive) Get(ctx context.Context, id int64) (Entry, error) {
	var (
		e                 Entry
		started, finished int64
	)
	err := a.db.QueryRowContext(ctx, `
		SELECT id, session_id, model, prompt, reply, error, started_at, finished_at
		FROM exchanges WHERE id = ?`, id,
	).Scan(&e.ID, &e.SessionID, &e.Model, &e.Prompt, &e.Reply, &e.Error, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read exchange %d: %w", id, err)
	}
	e.Started = time.UnixMilli(started)
	e.Finished = time.UnixMilli(finished)
	return e, nil
}
