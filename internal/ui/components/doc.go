// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components renders the pieces of the lazyllama screen.

Each component is a plain function or small struct that turns state into a
string; the chat model composes them in its View.

# Components

Panel (panel.go) - Rounded border box with an inline title.
Banner (banner.go) - The centered ASCII banner.
ModelList (modellist.go) - Installed models with the ">> " selection marker.
Transcript (transcript.go) - Styled, wrapped conversation rows.
Highlighter (highlight.go) - Chroma highlighting for fenced code, line by line.
InputLine (input.go) - Single-line input with a horizontally scrolled caret.
*/
package components
