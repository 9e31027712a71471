// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the per-model conversation state.
//
// Only the selected model's state lives in the Session's active fields. Every
// other model's state sits in a Store record until it is selected again. The
// Store is a write-back cache: nothing is copied between the two unless the
// caller saves or loads explicitly, and every path that changes the
// selection goes through save-then-load.
package session

import "sort"

// Record is the saved state of a model that is not currently active.
type Record struct {
	Input      string
	Cursor     int
	Transcript string
	Scroll     int
}

// Store maps model identifiers to their records.
type Store struct {
	records map[string]*Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Get returns the record for id without creating one.
func (s *Store) Get(id string) (*Record, bool) {
	r, ok := s.records[id]
	return r, ok
}

// GetOrCreate returns the record for id, inserting an empty one first if the
// id has never been seen.
func (s *Store) GetOrCreate(id string) *Record {
	r, ok := s.records[id]
	if !ok {
		r = &Record{}
		s.records[id] = r
	}
	return r
}

// EnsureRecordsFor inserts empty records for unseen ids. Existing records are
// left untouched.
func (s *Store) EnsureRecordsFor(ids []string) {
	for _, id := range ids {
		s.GetOrCreate(id)
	}
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// IDs returns the known model ids in sorted order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Transcripts returns a copy of every record's transcript keyed by id.
func (s *Store) Transcripts() map[string]string {
	out := make(map[string]string, len(s.records))
	for id, r := range s.records {
		out[id] = r.Transcript
	}
	return out
}
