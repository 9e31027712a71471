// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package persist

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 9, 14, 5, 7, 0, time.Local)

func TestSaveHistory(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveHistory(dir, "\nYOU: hi\n\nAI: yo\n---\n", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chat_2025-03-09_14-05-07.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\nYOU: hi\n\nAI: yo\n---\n", string(data))
}

func TestSaveHistory_EmptyWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	path, err := SaveHistory(dir, "", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "", path)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveModelHistories(t *testing.T) {
	dir := t.TempDir()
	paths, err := SaveModelHistories(dir, map[string]string{
		"llama3:8b":       "one",
		"library/qwen:7b": "two",
		`win\style`:       "three",
		"empty":           "",
	}, fixedNow)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, name := range []string{
		"chat_llama3_8b_2025-03-09_14-05-07.txt",
		"chat_library_qwen_7b_2025-03-09_14-05-07.txt",
		"chat_win_style_2025-03-09_14-05-07.txt",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 3)
}

func TestSaveModelHistories_Empty(t *testing.T) {
	paths, err := SaveModelHistories(t.TempDir(), map[string]string{}, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestSanitizeModelID(t *testing.T) {
	assert.Equal(t, "a_b_c_d", SanitizeModelID(`a:b/c\d`))
	assert.Equal(t, "plain", SanitizeModelID("plain"))
}

func TestDataDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG only applies on Unix")
	}
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "lazyllama"), dir)
}
