// Package api implements the multi-user HTTP API the web frontend
// talks to.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/asplabs/maia/internal/agent"
	"github.com/asplabs/maia/internal/auth"
	"github.com/asplabs/maia/internal/store"
)

// writeJSON encodes v as JSON to w, logging any errors at debug level.
// Errors here typically mean the client disconnected mid-response.
func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write JSON response", "error", err)
	}
}

// writeError sends a JSON error body in the {"detail": ...} shape the
// frontend expects.
func writeError(w http.ResponseWriter, status int, detail string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": detail}); err != nil {
		logger.Debug("failed to write error response", "error", err)
	}
}

// Server is the HTTP API server.
type Server struct {
	address string
	port    int
	loop    *agent.Loop
	store   *store.Store
	auth    *auth.Service
	origins []string
	logger  *slog.Logger
	server  *http.Server

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

// Config configures the server.
type Config struct {
	Address string
	Port    int
	// AllowedOrigins are the frontend origins CORS accepts.
	AllowedOrigins []string
}

// New creates an API server.
func New(cfg Config, loop *agent.Loop, st *store.Store, authSvc *auth.Service, logger *slog.Logger) *Server {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:3001"}
	}
	return &Server{
		address:  cfg.Address,
		port:     cfg.Port,
		loop:     loop,
		store:    st,
		auth:     authSvc,
		origins:  origins,
		logger:   logger,
		sessions: make(map[string]*sync.Mutex),
	}
}

// Handler builds the route table. Exposed separately so tests can
// drive the mux without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("POST /api/sessions/create", s.requireUser(s.handleSessionCreate))
	mux.HandleFunc("GET /api/sessions/list", s.requireUser(s.handleSessionList))
	mux.HandleFunc("DELETE /api/sessions/{id}", s.requireUser(s.handleSessionDelete))

	mux.HandleFunc("GET /api/chat/{id}", s.requireUser(s.handleChatHistory))
	mux.HandleFunc("POST /api/chat/{id}", s.requireUser(s.handleChatTurn))
	mux.HandleFunc("GET /api/chat/{id}/ws", s.requireUser(s.handleChatSocket))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.withLogging(s.withCORS(mux))
}

// Start begins serving HTTP requests.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.address, s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // tool calls can take a while
	}

	addr := s.address
	if addr == "" {
		addr = "0.0.0.0"
	}
	s.logger.Info("starting API server", "address", addr, "port", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// sessionLock returns the mutex serializing turns for one session, so
// concurrent posts cannot interleave their read-modify-write of the
// persisted history.
func (s *Server) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.sessions[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.sessions[sessionID] = lock
	}
	return lock
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status": "Maia está online e operando em máxima eficiência.",
	}, s.logger)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"}, s.logger)
}
