// Package http exposes flows over HTTP: listing, validation, synchronous runs and a
// server-sent event stream of actor activations.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/flowbench/internal/logging"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodyBytes bounds the size of a run request.
const MaxBodyBytes = 1 << 20

// Engine is what the server needs from the flow engine.
type Engine interface {
	Flows() ([]string, error)
	ValidateFlow(ctx context.Context, name string) error
	RunFlow(ctx context.Context, name string, vars map[string]string) (*domain.RunResult, error)
}

// Server serves an Engine.
type Server struct {
	Engine  Engine
	Streams *StreamManager

	logger  *slog.Logger
	version string
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer creates a Server. Use Hooks to feed the event stream and Handler to serve it.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	r.Route("/flows", func(r chi.Router) {
		r.Get("/", s.ListFlows)
		r.Get("/{name}/validate", s.ValidateFlow)
		r.Post("/{name}/run", s.RunFlow)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RunRequest is the body of POST /flows/{name}/run.
type RunRequest struct {
	Variables map[string]string `json:"variables,omitempty"`
}

// RunResponse reports a finished run.
type RunResponse struct {
	RunID       string   `json:"run_id"`
	Flow        string   `json:"flow"`
	Outputs     []any    `json:"outputs"`
	Errors      []string `json:"errors"`
	Stopped     bool     `json:"stopped"`
	StopMessage string   `json:"stop_message,omitempty"`
	Activations int      `json:"activations"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

// writeError maps engine errors to statuses. Anything that is not a missing flow or a
// stop is a flow the engine refused to build or set up.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, domain.ErrFlowNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrFlowStopped):
		status = http.StatusConflict
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "flowbench-http",
		"version": s.version,
	})
}

// ListFlows handles GET /flows.
func (s *Server) ListFlows(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.Flows()
	if err != nil {
		s.logger.Error("List flows failed", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"flows": names})
}

// ValidateFlow handles GET /flows/{name}/validate.
func (s *Server) ValidateFlow(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Engine.ValidateFlow(r.Context(), name); err != nil {
		s.logger.Warn("Flow is invalid", "flow", name, "err", err)
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"flow": name, "valid": true})
}

// RunFlow handles POST /flows/{name}/run.
func (s *Server) RunFlow(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body RunRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&body); err != nil {
			s.logger.Warn("RunFlow: Invalid request body", "err", err)
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
			return
		}
	}

	res, err := s.Engine.RunFlow(r.Context(), name, body.Variables)
	if res == nil {
		if err == nil {
			err = fmt.Errorf("flow %q produced no result", name)
		}
		s.logger.Warn("Run rejected", "flow", name, "err", err)
		s.writeError(w, err)
		return
	}
	if err != nil {
		s.logger.Warn("Run failed", "flow", name, "run", res.RunID, "err", err)
	}

	resp := RunResponse{
		RunID:       res.RunID,
		Flow:        res.Flow,
		Outputs:     res.Payloads(),
		Errors:      res.ErrorMessages(),
		Stopped:     res.Stopped,
		StopMessage: res.StopMessage,
		Activations: res.Activations,
	}
	status := http.StatusOK
	if err != nil && !res.Stopped {
		resp.Errors = append(resp.Errors, err.Error())
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, resp)
}

// StreamManager fans activation events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a buffered channel; call the returned func to unsubscribe.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every subscriber. Slow subscribers lose messages.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

// Hooks returns lifecycle hooks that broadcast activation events as JSON.
func (s *Server) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActivation: func(_ context.Context, e *domain.ActivationEvent) {
			if s.Streams.Subscribers() == 0 {
				return
			}
			msg := activationMessage{
				EventBase: e.EventBase,
				Actor:     e.Actor,
				ActorType: e.ActorType,
				Outputs:   e.Outputs,
				Duration:  e.Duration.String(),
			}
			if e.Err != nil {
				msg.Error = e.Err.Error()
			}
			data, err := json.Marshal(msg)
			if err != nil {
				s.logger.Warn("SSE: Event encode failed", "err", err)
				return
			}
			s.Streams.Broadcast(string(data))
		},
	}
}

type activationMessage struct {
	domain.EventBase
	Actor     string `json:"actor"`
	ActorType string `json:"actor_type"`
	Outputs   int    `json:"outputs"`
	Duration  string `json:"duration"`
	Error     string `json:"error,omitempty"`
}

// SubscribeEvents handles GET /events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()
	s.logger.Info("SSE: Client subscribed")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: activation\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
