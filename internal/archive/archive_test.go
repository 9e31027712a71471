// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package archive

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pommersche92/lazyllama/internal/conversation"
)

func openTemp(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "nested", FileName))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchive_RecordAndList(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	require.NoError(t, a.Record(ctx, conversation.Exchange{
		Model: "m1", Prompt: "first", Reply: "one",
		Started: base, Finished: base.Add(2 * time.Second),
	}))
	require.NoError(t, a.Record(ctx, conversation.Exchange{
		Model: "m2", Prompt: "second", Reply: "",
		Started: base.Add(time.Minute), Finished: base.Add(time.Minute),
		Err: errors.New("not running"),
	}))

	all, err := a.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Prompt)
	assert.Equal(t, "not running", all[0].Error)
	assert.Equal(t, "first", all[1].Prompt)
	assert.Equal(t, 2*time.Second, all[1].Duration())
	assert.Equal(t, a.SessionID(), all[1].SessionID)

	onlyM1, err := a.List(ctx, Query{Model: "m1"})
	require.NoError(t, err)
	require.Len(t, onlyM1, 1)
	assert.Equal(t, "one", onlyM1[0].Reply)

	limited, err := a.List(ctx, Query{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	got, err := a.Get(ctx, onlyM1[0].ID)
	require.NoError(t, err)
	assert.Equal(t, onlyM1[0], got)
}

func TestArchive_GetMissing(t *testing.T) {
	a := openTemp(t)
	_, err := a.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchive_SessionsDiffer(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(filepath.Join(dir, FileName))
	require.NoError(t, err)
	idA := a.SessionID()
	a.Close()

	b, err := Open(filepath.Join(dir, FileName))
	require.NoError(t, err)
	defer b.Close()
	assert.NotEqual(t, idA, b.SessionID())
}
