// Package server exposes the assistant over HTTP.
//
// Routes:
//
//	POST /chat     {"query": "..."} -> {"answer", "source_tool", "retrieved_context"}
//	GET  /healthz  liveness check
//	GET  /metrics  Prometheus exposition
//
// A blank query is rejected with 400. A failure of any upstream capability
// is reported as 502 (504 when the request deadline expired); the assistant
// never returns a partial answer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/intellicourse/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBytes = 64 << 10

// Answerer runs one question through the orchestrator.
type Answerer interface {
	Invoke(ctx context.Context, question string) (*core.State, error)
}

// QueryRequest is the body of POST /chat.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the successful reply to POST /chat.
type QueryResponse struct {
	Answer           string `json:"answer"`
	SourceTool       string `json:"source_tool,omitempty"`
	RetrievedContext string `json:"retrieved_context,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Server routes HTTP requests to an Answerer.
type Server struct {
	answerer Answerer
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	mux      *http.ServeMux
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithGatherer sets the registry served on /metrics.
// Default is prometheus.DefaultGatherer.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) error {
		if gatherer == nil {
			return errors.New("gatherer cannot be nil")
		}
		s.gatherer = gatherer
		return nil
	}
}

// New creates a server for answerer.
func New(answerer Answerer, opts ...Option) (*Server, error) {
	if answerer == nil {
		return nil, errors.New("answerer required")
	}

	s := &Server{
		answerer: answerer,
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default().With("component", "server"),
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.mux.HandleFunc("POST /chat", s.handleChat)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	logger := s.logger.With("http_request_id", requestID)

	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", RequestID: requestID})
		return
	}
	if err := core.ValidateQuestion(req.Query); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), RequestID: requestID})
		return
	}

	state, err := s.answerer.Invoke(r.Context(), req.Query)
	if err != nil {
		logger.Error("chat failed", "err", err)
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeJSON(w, status, errorResponse{Error: "upstream service failed", RequestID: requestID})
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer:           state.Answer(),
		SourceTool:       string(state.SourceTool),
		RetrievedContext: state.RetrievedContext,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
