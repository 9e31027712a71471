// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the lazyllama terminal UI: a bubbletea model that owns
// the session, dispatches keys, and drives streaming exchanges.
//
// # Streaming
//
// Submitting a prompt frames it into the transcript and returns a command
// that opens the stream. Each later command blocks for one batch of
// fragments and returns it as a FragmentMsg; Update appends the batch and
// only then issues the next wait. At most one wait is outstanding, so
// fragments land in the order the server sent them and all state changes
// stay on the bubbletea goroutine.
//
// # Files
//
//   - keys.go: key bindings and footer help
//   - messages.go: message types
//   - commands.go: tea.Cmd constructors for I/O
//   - model.go: Model and constructor
//   - update.go: message and key handling
//   - view.go: layout and rendering
package chat
