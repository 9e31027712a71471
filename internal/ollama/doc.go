// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama is the HTTP client for a local Ollama server.
//
// Only the two endpoints the chat client needs are covered: /api/tags to
// discover installed models and /api/generate to stream a completion.
//
// # Streaming
//
// Generate returns a FragmentStream. Each call to Next blocks for the next
// NDJSON line and then drains any further lines that are already buffered,
// so one call yields a batch of fragments:
//
//	stream, err := client.Generate(ctx, "llama3:8b", "hello")
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//	for {
//	    frags, err := stream.Next()
//	    if errors.Is(err, ollama.ErrMalformedChunk) {
//	        continue
//	    }
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
//
// A batch where every line fails to decode is reported as ErrMalformedChunk
// and can be skipped; the stream stays usable.
package ollama
