// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import "time"

// BlinkInterval is how long the caret stays in one state.
const BlinkInterval = 500 * time.Millisecond

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Blink tracks caret visibility.
type Blink struct {
	visible    bool
	lastToggle time.Time
	now        Clock
}

// NewBlink creates a visible caret. A nil clock uses time.Now.
func NewBlink(now Clock) *Blink {
	if now == nil {
		now = time.Now
	}
	return &Blink{visible: true, lastToggle: now(), now: now}
}

// Visible reports whether the caret should be drawn.
func (b *Blink) Visible() bool { return b.visible }

// Update flips visibility once BlinkInterval has elapsed since the last
// toggle. It returns true when the caret changed and a redraw is needed.
func (b *Blink) Update() bool {
	now := b.clock()
	if now.Sub(b.lastToggle) >= BlinkInterval {
		b.visible = !b.visible
		b.lastToggle = now
		return true
	}
	return false
}

// Reset makes the caret visible and restarts the timer.
func (b *Blink) Reset() {
	b.visible = true
	b.lastToggle = b.clock()
}

func (b *Blink) clock() time.Time {
	if b.now == nil {
		return time.Now()
	}
	return b.now()
}
