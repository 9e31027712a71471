// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example:1/"})
	if c.BaseURL() != "http://example:1" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", c.BaseURL())
	}
	if c.config.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", c.config.Timeout)
	}

	d := NewClientWithConfig(nil)
	if d.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", d.BaseURL(), DefaultBaseURL)
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q, want /api/tags", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ListModelsResponse{Models: []ModelInfo{
			{Name: "llama3:8b", Size: 4 << 30},
			{Name: "qwen2.5-coder:7b"},
		}})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	names, err := c.ModelNames(context.Background())
	if err != nil {
		t.Fatalf("ModelNames() error = %v", err)
	}
	if len(names) != 2 || names[0] != "llama3:8b" || names[1] != "qwen2.5-coder:7b" {
		t.Errorf("ModelNames() = %v", names)
	}
}

func TestListModels_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	if _, err := c.ListModels(context.Background()); err == nil {
		t.Fatal("ListModels() expected error")
	}
}

func TestListModels_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url})
	_, err := c.ListModels(context.Background())
	if !IsNotRunning(err) {
		t.Errorf("ListModels() error = %v, want not-running", err)
	}
}

func TestGenerate_Streams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "m1" || req.Prompt != "hi" || !req.Stream {
			t.Errorf("request = %+v", req)
		}
		flusher := w.(http.Flusher)
		for _, part := range []string{"Hel", "lo"} {
			json.NewEncoder(w).Encode(GenerateResponse{Model: "m1", Response: part})
			flusher.Flush()
		}
		json.NewEncoder(w).Encode(GenerateResponse{Model: "m1", Done: true, EvalCount: 2, EvalDuration: int64(time.Second)})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	stream, err := c.Generate(context.Background(), "m1", "hi")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	defer stream.Close()

	var got strings.Builder
	for {
		frags, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		for _, f := range frags {
			got.WriteString(f)
		}
	}
	if got.String() != "Hello" {
		t.Errorf("streamed = %q, want %q", got.String(), "Hello")
	}
	if stream.Stats().CompletionTokens != 2 {
		t.Errorf("CompletionTokens = %d, want 2", stream.Stats().CompletionTokens)
	}
	if tps := stream.Stats().TokensPerSecond(); tps != 2 {
		t.Errorf("TokensPerSecond() = %v, want 2", tps)
	}
}

func TestGenerate_ModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), "missing", "hi")
	if !IsModelNotFound(err) {
		t.Errorf("Generate() error = %v, want model-not-found", err)
	}
}

func TestGenerate_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad prompt"}`))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), "m", "hi")
	if err == nil || err.Error() != "bad prompt" {
		t.Errorf("Generate() error = %v, want %q", err, "bad prompt")
	}
}

func TestGenerate_NoModel(t *testing.T) {
	c := NewClient()
	if _, err := c.Generate(context.Background(), "", "hi"); err == nil {
		t.Error("Generate() with empty model should fail")
	}
}

// =============================================================================
// STREAM TESTS
// =============================================================================

func TestFragmentStream_BatchesBufferedLines(t *testing.T) {
	body := `{"response":"a"}` + "\n" + `{"response":"b"}` + "\n" + `{"response":"","done":true}` + "\n"
	s := NewFragmentStream(strings.NewReader(body))

	frags, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if strings.Join(frags, "|") != "a|b" {
		t.Errorf("Next() = %v, want [a b]", frags)
	}
	if _, err := s.Next(); err != io.EOF {
		t.Errorf("Next() after done = %v, want io.EOF", err)
	}
}

func TestFragmentStream_MalformedSkipped(t *testing.T) {
	pr, pw := io.Pipe()
	s := NewFragmentStream(pr)

	go func() {
		pw.Write([]byte("{not json\n"))
		pw.Write([]byte(`{"response":"ok"}` + "\n"))
		pw.Write([]byte(`{"done":true}` + "\n"))
		pw.Close()
	}()

	var got []string
	malformed := 0
	for {
		frags, err := s.Next()
		if err == io.EOF {
			break
		}
		if errors.Is(err, ErrMalformedChunk) {
			malformed++
			continue
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, frags...)
	}

	if strings.Join(got, "") != "ok" {
		t.Errorf("fragments = %v, want [ok]", got)
	}
	if s.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", s.Skipped())
	}
	if malformed > 1 {
		t.Errorf("malformed batches = %d, want at most 1", malformed)
	}
}

func TestFragmentStream_ErrorLine(t *testing.T) {
	s := NewFragmentStream(strings.NewReader(`{"error":"model crashed"}` + "\n"))
	_, err := s.Next()
	if err == nil || err.Error() != "model crashed" {
		t.Fatalf("Next() error = %v, want model crashed", err)
	}
	if _, err := s.Next(); err != io.EOF {
		t.Errorf("Next() after error = %v, want io.EOF", err)
	}
}

func TestFragmentStream_NoTrailingNewline(t *testing.T) {
	s := NewFragmentStream(strings.NewReader(`{"response":"tail"}`))
	frags, err := s.Next()
	if err != nil || len(frags) != 1 || frags[0] != "tail" {
		t.Fatalf("Next() = %v, %v", frags, err)
	}
	if _, err := s.Next(); err != io.EOF {
		t.Errorf("Next() = %v, want io.EOF", err)
	}
}

func TestFragmentStream_BlankLinesIgnored(t *testing.T) {
	s := NewFragmentStream(strings.NewReader("\n\n" + `{"response":"x","done":true}` + "\n"))
	frags, err := s.Next()
	if err != nil || len(frags) != 1 || frags[0] != "x" {
		t.Fatalf("Next() = %v, %v", frags, err)
	}
}
