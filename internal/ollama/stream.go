// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"
)

// =============================================================================
// FRAGMENT STREAM
// =============================================================================

// FragmentStream reads a streaming /api/generate response.
// It is not safe for concurrent use.
type FragmentStream struct {
	body    io.ReadCloser
	reader  *bufio.Reader
	done    bool
	stats   StreamStats
	skipped int
}

func newFragmentStream(body io.ReadCloser) *FragmentStream {
	return &FragmentStream{
		body:   body,
		reader: bufio.NewReader(body),
	}
}

// NewFragmentStream wraps an NDJSON body. Exposed for tests and for replaying
// captured responses.
func NewFragmentStream(r io.Reader) *FragmentStream {
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	return newFragmentStream(rc)
}

// Next returns the next batch of fragments. It blocks for one line, then
// takes every further complete line already buffered. It returns io.EOF once
// the server reports done or the body ends, and ErrMalformedChunk when no
// line in the batch could be decoded.
func (s *FragmentStream) Next() ([]string, error) {
	if s.done {
		return nil, io.EOF
	}

	line, err := s.reader.ReadBytes('\n')
	if len(line) == 0 && err != nil {
		s.done = true
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "stream read failed", Cause: err}
	}

	var frags []string
	decoded := 0
	skippedBefore := s.skipped
	streamErr := s.consume(line, &frags, &decoded)

	for streamErr == nil && !s.done && s.lineBuffered() {
		next, rerr := s.reader.ReadBytes('\n')
		streamErr = s.consume(next, &frags, &decoded)
		if rerr != nil {
			break
		}
	}

	if err != nil && errors.Is(err, io.EOF) {
		s.done = true
	}
	if streamErr != nil {
		s.done = true
		return frags, streamErr
	}
	if decoded == 0 {
		if s.done {
			return nil, io.EOF
		}
		if s.skipped == skippedBefore {
			// only blank lines
			return s.Next()
		}
		return nil, ErrMalformedChunk
	}
	return frags, nil
}

// consume decodes one line, appending its text. Blank lines are ignored;
// malformed lines are counted and dropped.
func (s *FragmentStream) consume(line []byte, frags *[]string, decoded *int) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	var resp GenerateResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		s.skipped++
		return nil
	}
	*decoded++

	if resp.Error != "" {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: resp.Error}
	}
	if resp.Response != "" {
		*frags = append(*frags, resp.Response)
	}
	if resp.Done {
		s.done = true
		s.stats = StreamStats{
			Model:            resp.Model,
			DoneReason:       resp.DoneReason,
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalDuration:    time.Duration(resp.TotalDuration),
			EvalDuration:     time.Duration(resp.EvalDuration),
		}
	}
	return nil
}

// lineBuffered reports whether a complete line is already in the buffer.
func (s *FragmentStream) lineBuffered() bool {
	n := s.reader.Buffered()
	if n == 0 {
		return false
	}
	peek, err := s.reader.Peek(n)
	if err != nil {
		return false
	}
	return bytes.IndexByte(peek, '\n') >= 0
}

// Stats returns metrics from the final line. Zero until the stream is done.
func (s *FragmentStream) Stats() StreamStats { return s.stats }

// Skipped returns the number of lines that failed to decode.
func (s *FragmentStream) Skipped() int { return s.skipped }

// Close releases the response body.
func (s *FragmentStream) Close() error {
	s.done = true
	return s.body.Close()
}
