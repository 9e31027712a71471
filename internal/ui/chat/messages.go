// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/Pommersche92/lazyllama/internal/config"
	"github.com/Pommersche92/lazyllama/internal/conversation"
)

// =============================================================================
// MODEL DISCOVERY
// =============================================================================

// ModelsLoadedMsg carries the result of a model list refresh. On error the
// current list is kept.
type ModelsLoadedMsg struct {
	Models []string
	Err    error
}

// =============================================================================
// STREAMING
// =============================================================================

// streamOpenedMsg reports whether the generate request was accepted.
type streamOpenedMsg struct {
	stream conversation.Stream
	err    error
}

// FragmentMsg delivers one batch of response fragments. Done is set at end
// of stream; Err is set when the stream failed or a batch was malformed.
type FragmentMsg struct {
	Fragments []string
	Err       error
	Done      bool
}

// =============================================================================
// TIMERS / EXTERNAL EVENTS
// =============================================================================

// tickMsg drives the cursor blink.
type tickMsg time.Time

// ConfigReloadedMsg is sent by the config watcher after the file changed.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// clipboardMsg reports the outcome of a copy.
type clipboardMsg struct {
	chars int
	err   error
}
