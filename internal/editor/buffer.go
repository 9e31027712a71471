// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"unicode"
	"unicode/utf8"
)

// Buffer is a text buffer with a character-indexed cursor.
//
// The zero value is an empty buffer with the cursor at 0 and no blink
// tracking. Use New to get a buffer whose mutations reset a Blink.
type Buffer struct {
	text   string
	cursor int
	blink  *Blink
}

// New creates an empty buffer that resets blink on every mutation.
// blink may be nil.
func New(blink *Blink) *Buffer {
	return &Buffer{blink: blink}
}

// String returns the buffer contents.
func (b *Buffer) String() string { return b.text }

// Cursor returns the cursor position as a character index.
func (b *Buffer) Cursor() int { return b.cursor }

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int { return utf8.RuneCountInString(b.text) }

// IsEmpty reports whether the buffer holds no text.
func (b *Buffer) IsEmpty() bool { return b.text == "" }

// Blink returns the blink state attached to the buffer, or nil.
func (b *Buffer) Blink() *Blink { return b.blink }

// Set replaces the contents and cursor, then clamps the cursor.
// Used when loading a stored record into the active buffer.
func (b *Buffer) Set(text string, cursor int) {
	b.text = text
	b.cursor = cursor
	b.Clamp()
	b.touch()
}

// Clear empties the buffer and moves the cursor to 0.
func (b *Buffer) Clear() {
	b.text = ""
	b.cursor = 0
	b.touch()
}

// Clamp forces the cursor into [0, Len()].
func (b *Buffer) Clamp() {
	if b.cursor < 0 {
		b.cursor = 0
	}
	if n := b.Len(); b.cursor > n {
		b.cursor = n
	}
}

// =============================================================================
// CHARACTER OPERATIONS
// =============================================================================

// Insert inserts r before the cursor and advances the cursor by one.
func (b *Buffer) Insert(r rune) {
	b.Clamp()
	at := byteOffset(b.text, b.cursor)
	b.text = b.text[:at] + string(r) + b.text[at:]
	b.cursor++
	b.touch()
}

// InsertString inserts s before the cursor, one character at a time.
func (b *Buffer) InsertString(s string) {
	for _, r := range s {
		b.Insert(r)
	}
}

// Backspace removes the character before the cursor.
func (b *Buffer) Backspace() {
	b.Clamp()
	if b.cursor > 0 {
		b.removeRange(b.cursor-1, b.cursor)
		b.cursor--
	}
	b.touch()
}

// DeleteForward removes the character at the cursor.
func (b *Buffer) DeleteForward() {
	b.Clamp()
	if b.cursor < b.Len() {
		b.removeRange(b.cursor, b.cursor+1)
	}
	b.touch()
}

// MoveLeft moves the cursor one character left, stopping at 0.
func (b *Buffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
	b.Clamp()
	b.touch()
}

// MoveRight moves the cursor one character right, stopping at the end.
func (b *Buffer) MoveRight() {
	if b.cursor < b.Len() {
		b.cursor++
	}
	b.Clamp()
	b.touch()
}

// MoveHome moves the cursor to the start of the buffer.
func (b *Buffer) MoveHome() {
	b.cursor = 0
	b.touch()
}

// MoveEnd moves the cursor past the last character.
func (b *Buffer) MoveEnd() {
	b.cursor = b.Len()
	b.touch()
}

// =============================================================================
// WORD OPERATIONS
// =============================================================================

// MoveWordLeft moves the cursor to the start of the previous word.
func (b *Buffer) MoveWordLeft() {
	b.Clamp()
	b.cursor = wordLeft([]rune(b.text), b.cursor)
	b.touch()
}

// MoveWordRight moves the cursor to the end of the next word.
func (b *Buffer) MoveWordRight() {
	b.Clamp()
	b.cursor = wordRight([]rune(b.text), b.cursor)
	b.touch()
}

// DeleteWordLeft removes everything between the start of the previous word
// and the cursor.
func (b *Buffer) DeleteWordLeft() {
	b.Clamp()
	start := wordLeft([]rune(b.text), b.cursor)
	if start < b.cursor {
		b.removeRange(start, b.cursor)
		b.cursor = start
	}
	b.touch()
}

// DeleteWordRight removes everything between the cursor and the end of the
// next word.
func (b *Buffer) DeleteWordRight() {
	b.Clamp()
	end := wordRight([]rune(b.text), b.cursor)
	if end > b.cursor {
		b.removeRange(b.cursor, end)
	}
	b.touch()
}

// IsWordChar reports whether r belongs to a word.
func IsWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

func wordLeft(runes []rune, pos int) int {
	for pos > 0 && !IsWordChar(runes[pos-1]) {
		pos--
	}
	for pos > 0 && IsWordChar(runes[pos-1]) {
		pos--
	}
	return pos
}

func wordRight(runes []rune, pos int) int {
	n := len(runes)
	for pos < n && !IsWordChar(runes[pos]) {
		pos++
	}
	for pos < n && IsWordChar(runes[pos]) {
		pos++
	}
	return pos
}

// =============================================================================
// INTERNALS
// =============================================================================

// byteOffset translates a character index into a byte offset into s.
// Indices past the end map to len(s).
func byteOffset(s string, charIdx int) int {
	if charIdx <= 0 {
		return 0
	}
	i := 0
	for off := range s {
		if i == charIdx {
			return off
		}
		i++
	}
	return len(s)
}

// removeRange deletes the characters in [from, to).
func (b *Buffer) removeRange(from, to int) {
	start := byteOffset(b.text, from)
	end := byteOffset(b.text, to)
	b.text = b.text[:start] + b.text[end:]
}

func (b *Buffer) touch() {
	if b.blink != nil {
		b.blink.Reset()
	}
}
