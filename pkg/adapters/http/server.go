// Package http exposes the control protocol over HTTP: commands in, drained
// events out. It is a thin transport over a control.Client; the tree itself
// stays on the loop goroutine.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/control"
)

// Server bridges HTTP requests onto a control client.
type Server struct {
	client *control.Client
	logger *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for a control client.
func NewHandler(client *control.Client, opts ...Option) http.Handler {
	s := &Server{
		client: client,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Post("/commands", s.postCommand)
	r.Get("/events", s.getEvents)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// postCommand decodes one command envelope and queues it. The reply is 202:
// results arrive asynchronously on /events.
func (s *Server) postCommand(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	cmd, err := control.UnmarshalCommand(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.client.Send(cmd); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	s.logger.Debug("command queued", "command", cmd.Name())
	w.WriteHeader(http.StatusAccepted)
}

// getEvents drains all pending events and returns them as an array of
// envelopes, oldest first.
func (s *Server) getEvents(w http.ResponseWriter, _ *http.Request) {
	events := make([]json.RawMessage, 0)
	for {
		ev, ok := s.client.TryRecv()
		if !ok {
			break
		}
		data, err := control.MarshalEvent(ev)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		events = append(events, data)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		s.logger.Warn("encode events", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
