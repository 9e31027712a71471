// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/Pommersche92/lazyllama/internal/editor"
)

// NoSelection is the Selected value when the model list is empty.
const NoSelection = -1

// Session is the full application state. It is owned by one control loop
// and passed by pointer; nothing here is safe for concurrent use.
type Session struct {
	Models   []string
	Selected int

	// Active scalars for Models[Selected].
	Input      *editor.Buffer
	Transcript string
	Scroll     int

	Autoscroll bool
	Loading    bool

	Store *Store
}

// New creates a session with no models. blink may be nil.
func New(blink *editor.Blink) *Session {
	return &Session{
		Selected:   NoSelection,
		Input:      editor.New(blink),
		Autoscroll: true,
		Store:      NewStore(),
	}
}

// HasSelection reports whether a model is selected.
func (s *Session) HasSelection() bool {
	return s.Selected >= 0 && s.Selected < len(s.Models)
}

// ActiveModel returns the selected model id, or "" with no selection.
func (s *Session) ActiveModel() string {
	if !s.HasSelection() {
		return ""
	}
	return s.Models[s.Selected]
}

// =============================================================================
// SAVE / LOAD
// =============================================================================

// SaveActiveInto copies the active scalars into the record for id.
func (s *Session) SaveActiveInto(id string) {
	if !s.HasSelection() {
		return
	}
	r := s.Store.GetOrCreate(id)
	r.Input = s.Input.String()
	r.Cursor = s.Input.Cursor()
	r.Transcript = s.Transcript
	r.Scroll = s.Scroll
}

// LoadActiveFrom copies the record for id into the active scalars.
func (s *Session) LoadActiveFrom(id string) {
	if !s.HasSelection() {
		return
	}
	r := s.Store.GetOrCreate(id)
	s.Input.Set(r.Input, r.Cursor)
	s.Transcript = r.Transcript
	s.Scroll = r.Scroll
}

// SaveActive saves into the selected model's record.
func (s *Session) SaveActive() {
	s.SaveActiveInto(s.ActiveModel())
}

// LoadActive loads from the selected model's record.
func (s *Session) LoadActive() {
	s.LoadActiveFrom(s.ActiveModel())
}

// =============================================================================
// SELECTION
// =============================================================================

// SelectNext moves to the next model, wrapping at the end.
func (s *Session) SelectNext() {
	n := len(s.Models)
	if n == 0 || !s.HasSelection() {
		return
	}
	s.SelectIndex((s.Selected + 1) % n)
}

// SelectPrevious moves to the previous model, wrapping at the start.
func (s *Session) SelectPrevious() {
	n := len(s.Models)
	if n == 0 || !s.HasSelection() {
		return
	}
	s.SelectIndex((s.Selected - 1 + n) % n)
}

// SelectIndex saves the current model and loads model i. Out-of-range
// indices are ignored.
func (s *Session) SelectIndex(i int) {
	if i < 0 || i >= len(s.Models) {
		return
	}
	s.SaveActive()
	s.Selected = i
	s.LoadActive()
}

// SelectModel selects the model named id. It reports whether id is known.
func (s *Session) SelectModel(id string) bool {
	for i, m := range s.Models {
		if m == id {
			s.SelectIndex(i)
			return true
		}
	}
	return false
}

// ReplaceModels installs a freshly discovered model list. The current model
// is saved first, records are ensured for every id, and the first model is
// selected and loaded. An empty list clears the selection.
func (s *Session) ReplaceModels(ids []string) {
	s.SaveActive()
	s.Models = dedupe(ids)
	s.Store.EnsureRecordsFor(s.Models)
	if len(s.Models) == 0 {
		s.Selected = NoSelection
		s.Input.Clear()
		s.Transcript = ""
		s.Scroll = 0
		return
	}
	s.Selected = 0
	s.LoadActive()
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// ClearActive empties the active transcript and pins the view to the bottom.
func (s *Session) ClearActive() {
	s.Transcript = ""
	s.Scroll = 0
	s.Autoscroll = true
	s.SaveActive()
}

// Histories saves the active model and returns every model's transcript.
func (s *Session) Histories() map[string]string {
	s.SaveActive()
	return s.Store.Transcripts()
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
