// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor implements the single-line prompt editor used by the chat
// view.
//
// A Buffer is addressed by character index (Unicode scalar values), never by
// byte offset. The translation to byte offsets happens in exactly one place,
// byteOffset, so callers can move the cursor around multi-byte text without
// ever splitting a rune.
//
// Word operations use a two-phase skip: first over separators, then over word
// characters (letters, numbers and underscore). A cursor sitting after
// "foo, " therefore jumps to the start of "foo" in one call.
package editor
