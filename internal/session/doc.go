// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the per-model chat state.
//
// A Session owns the model list, the selection and the active input,
// transcript and scroll offset. Every model also has a Record in the Store;
// switching models saves the active fields into the outgoing model's record
// and loads the incoming one, so histories never mix.
//
// # Usage
//
//	sess := session.New(editor.NewBlink(nil))
//	sess.ReplaceModels([]string{"llama3", "mistral"})
//	sess.SelectNext()
package session
