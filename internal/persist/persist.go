// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persist writes conversation transcripts to timestamped text files
// when the client exits.
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/Pommersche92/lazyllama/internal/util"
)

const (
	// AppDirName is the per-user data subdirectory.
	AppDirName = "lazyllama"

	timestampLayout = "2006-01-02_15-04-05"
	filePerm        = 0o644
	dirPerm         = 0o755
)

// ErrNoDataDir means no user data directory could be determined.
var ErrNoDataDir = errors.New("data directory not found")

// DataDir returns the local data directory for the client:
// $XDG_DATA_HOME/lazyllama or ~/.local/share/lazyllama on Unix,
// %LOCALAPPDATA%\lazyllama on Windows, ~/Library/Application Support/lazyllama
// on macOS.
func DataDir() (string, error) {
	base, err := dataLocalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppDirName), nil
}

func dataLocalDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if d := os.Getenv("LOCALAPPDATA"); d != "" {
			return d, nil
		}
		return "", ErrNoDataDir
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", ErrNoDataDir
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if d := os.Getenv("XDG_DATA_HOME"); d != "" && filepath.IsAbs(d) {
			return d, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", ErrNoDataDir
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// SanitizeModelID makes a model identifier safe for use in a filename.
func SanitizeModelID(id string) string {
	return strings.NewReplacer(":", "_", "/", "_", `\`, "_").Replace(id)
}

// HistoryFileName is the file name for the active transcript saved at now.
func HistoryFileName(now time.Time) string {
	return "chat_" + now.Format(timestampLayout) + ".txt"
}

// ModelHistoryFileName is the file name for one model's transcript.
func ModelHistoryFileName(modelID string, now time.Time) string {
	return "chat_" + SanitizeModelID(modelID) + "_" + now.Format(timestampLayout) + ".txt"
}

// SaveHistory writes text to dir/chat_<timestamp>.txt. Empty text writes
// nothing and returns "" with no error.
func SaveHistory(dir, text string, now time.Time) (string, error) {
	if text == "" {
		return "", nil
	}
	path := filepath.Join(dir, HistoryFileName(now))
	if err := util.AtomicWriteFile(path, []byte(text), filePerm, dirPerm); err != nil {
		return "", fmt.Errorf("save history: %w", err)
	}
	return path, nil
}

// SaveModelHistories writes one file per non-empty transcript. It keeps
// going after a failed write and returns the paths written plus the joined
// errors.
func SaveModelHistories(dir string, histories map[string]string, now time.Time) ([]string, error) {
	ids := make([]string, 0, len(histories))
	for id, text := range histories {
		if text != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var (
		paths []string
		errs  []error
	)
	for _, id := range ids {
		path := filepath.Join(dir, ModelHistoryFileName(id, now))
		if err := util.AtomicWriteFile(path, []byte(histories[id]), filePerm, dirPerm); err != nil {
			errs = append(errs, fmt.Errorf("save history for %s: %w", id, err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}
