package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// errStreamClosed is returned by writes after an earlier write failed.
var errStreamClosed = errors.New("event stream closed")

// SSEWriter writes numbered Server-Sent Events. Safe for concurrent use; the two analysis
// branches report progress from their own goroutines.
type SSEWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	nextID  int
	closed  bool
}

// NewSSEWriter sets the event-stream headers on w.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends one event with data encoded as JSON. Once a write to the client fails
// every later call returns errStreamClosed.
func (s *SSEWriter) WriteEvent(event string, data any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errStreamClosed
	}
	s.nextID++
	// Encode terminates the payload with a newline; the blank line ends the event.
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n", s.nextID, event, buf.Bytes()); err != nil {
		s.closed = true
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteComplete sends the final report of a run.
func (s *SSEWriter) WriteComplete(runID string, report any) error {
	return s.WriteEvent("complete", map[string]any{
		"run_id": runID,
		"report": report,
	})
}
