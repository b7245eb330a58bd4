package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

// spaceToken is how the wire format encodes spaces inside a token. The
// widget splits frames on whitespace, so literal spaces must be escaped.
const spaceToken = "<space_token>"

// streamWriter frames tokens for the chat widget: each token is JSON-quoted
// and newline-delimited, with spaces substituted before quoting.
type streamWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newStreamWriter(w http.ResponseWriter) *streamWriter {
	flusher, _ := w.(http.Flusher)
	return &streamWriter{w: w, flusher: flusher}
}

// Emit writes one token frame. Headers go out with the first frame, so
// validation errors before any token can still use a normal error status.
func (s *streamWriter) Emit(token string) error {
	if !s.started {
		s.w.Header().Set("Content-Type", "text/event-stream")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("Connection", "keep-alive")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}

	// The widget expects the space marker verbatim, so the encoder must
	// not escape angle brackets. Encode appends the frame delimiter.
	var frame bytes.Buffer
	enc := json.NewEncoder(&frame)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(strings.ReplaceAll(token, " ", spaceToken)); err != nil {
		return err
	}

	if _, err := s.w.Write(frame.Bytes()); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}

	return nil
}

// Started reports whether any frame has been written.
func (s *streamWriter) Started() bool {
	return s.started
}
