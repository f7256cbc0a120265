// Package server serves the browser front end: an HTTP API for one-shot
// predictions and a websocket session per open page that streams frames of
// the particle simulation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/medinalabs/neuropredictor/internal/metrics"
	"github.com/medinalabs/neuropredictor/internal/models"
	"github.com/medinalabs/neuropredictor/internal/predict"
	"github.com/medinalabs/neuropredictor/internal/shell"
	"github.com/medinalabs/neuropredictor/web"
)

// maxBodyBytes bounds /api/predict request bodies.
const maxBodyBytes = 64 << 10

// Options configures a Server.
type Options struct {
	Source        predict.Source
	Metrics       *metrics.Collector
	Logger        *slog.Logger
	FrameInterval time.Duration
}

// Server routes HTTP requests and owns the live websocket sessions.
type Server struct {
	source        predict.Source
	metrics       *metrics.Collector
	logger        *slog.Logger
	frameInterval time.Duration
	upgrader      websocket.Upgrader
	handler       http.Handler

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
	wg       sync.WaitGroup
}

// New creates a server. Source is required.
func New(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("server: prediction source is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / 60
	}

	s := &Server{
		source:        opts.Source,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		frameInterval: opts.FrameInterval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for local dev
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		sessions: make(map[string]*session),
	}

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("static files: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/predict", s.handlePredict)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.Handle("GET /", http.FileServer(http.FS(static)))

	s.handler = LoggingMiddleware(s.logger)(mux)
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions returns the number of live websocket sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close tears down every live session and waits for them to finish.
// New websocket connections are refused afterwards.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	live := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.Unlock()

	for _, sess := range live {
		sess.teardown()
	}
	s.wg.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	candidates, err := s.source.Predict(r.Context(), req.Text)
	if err != nil {
		s.logger.Warn("prediction failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: shell.ErrorMessage})
		return
	}
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	writeJSON(w, http.StatusOK, predictResponse{Predictions: candidates})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, s.source, s.metrics, s.logger, s.frameInterval)
	if !s.register(sess) {
		sess.teardown()
		return
	}
	defer s.unregister(sess)

	sess.run(context.WithoutCancel(r.Context()))
}

func (s *Server) register(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	return true
}

func (s *Server) unregister(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	s.wg.Done()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
