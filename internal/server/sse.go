package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// SSEWriter helps write Server-Sent Events. It is safe for concurrent use.
type SSEWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteStage sends the label of the current analysis stage
func (s *SSEWriter) WriteStage(index, total int, label string) error {
	return s.WriteEvent("stage", stageEvent{Index: index, Total: total, Label: label})
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(status int, message string, sess any) {
	s.WriteEvent("error", map[string]any{ //nolint:errcheck
		"status":  status,
		"error":   message,
		"session": sess,
	})
}

// WriteComplete sends a completion event
func (s *SSEWriter) WriteComplete(sess any) {
	s.WriteEvent("complete", map[string]any{"session": sess}) //nolint:errcheck
}

type stageEvent struct {
	Index int    `json:"index"`
	Total int    `json:"total"`
	Label string `json:"label"`
}
