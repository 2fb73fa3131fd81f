package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	tailsvc "github.com/rzbill/ralphmc/internal/services/tail"
)

// sseSink adapts an HTTP response into a tail sink speaking Server-Sent
// Events. Every event becomes one data frame; keepalives go out as comment
// lines, which EventSource clients ignore.
type sseSink struct {
	w http.ResponseWriter
	r *http.Request
}

func (s sseSink) Send(ev tailsvc.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := s.w.Write(payload); err != nil {
		return err
	}
	_, err = s.w.Write([]byte("\n\n"))
	return err
}

func (s sseSink) Keepalive() error {
	_, err := s.w.Write([]byte(": keepalive\n\n"))
	return err
}

func (s sseSink) Flush() error {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

func (s sseSink) Context() context.Context {
	return s.r.Context()
}
