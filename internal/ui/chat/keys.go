// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat screen.
type KeyMap struct {
	Quit         key.Binding
	Clear        key.Binding
	ToggleScroll key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	PrevModel    key.Binding
	NextModel    key.Binding
	Submit       key.Binding
	Copy         key.Binding
	Refresh      key.Binding

	// Line editing
	Backspace       key.Binding
	Delete          key.Binding
	Left            key.Binding
	Right           key.Binding
	Home            key.Binding
	End             key.Binding
	WordLeft        key.Binding
	WordRight       key.Binding
	DeleteWordLeft  key.Binding
	DeleteWordRight key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("C-q:", "Quit"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c:", "Clear"),
		),
		ToggleScroll: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s:", "AutoScroll"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp/Dn:", "Scroll"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		PrevModel: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous model"),
		),
		NextModel: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next model"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y:", "Copy"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r:", "Refresh"),
		),

		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "ctrl+a"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "ctrl+e"),
		),
		WordLeft: key.NewBinding(
			key.WithKeys("ctrl+left", "alt+b"),
		),
		WordRight: key.NewBinding(
			key.WithKeys("ctrl+right", "alt+f"),
		),
		DeleteWordLeft: key.NewBinding(
			key.WithKeys("ctrl+w", "alt+backspace"),
		),
		DeleteWordRight: key.NewBinding(
			key.WithKeys("alt+d"),
		),
	}
}

// ShortHelp implements help.KeyMap. It is the footer line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Clear, k.ToggleScroll, k.PageUp, k.Copy, k.Refresh}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Clear, k.ToggleScroll, k.Copy, k.Refresh},
		{k.PageUp, k.PageDown, k.PrevModel, k.NextModel, k.Submit},
	}
}
