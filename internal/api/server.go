// Package api exposes the question-answering core over HTTP.
//
// Endpoints:
//
//	POST /api/ask                 gate -> orchestrator -> filtered answer
//	GET  /api/health              load/config status for the UI
//	GET  /api/suggested-questions starter questions for first-time users
//
// The web UI itself is an external collaborator; this package carries no
// presentation logic, only the JSON contract.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shagarchive/shagqa/internal/archive"
	"github.com/shagarchive/shagqa/internal/chat"
	"github.com/shagarchive/shagqa/internal/quota"
	"github.com/shagarchive/shagqa/internal/security"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      *slog.Logger
	Loader      *archive.Loader    // Required
	Knowledge   func() string      // Required: current knowledge base
	Chat        *chat.Handler      // Required
	RateLimiter *security.RateLimiter // Required
	Quota       *quota.Counter     // Optional: nil disables the daily quota
	TrustProxy  bool               // Trust X-Real-IP/X-Forwarded-For headers
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Loader == nil {
		return nil, errors.New("archive loader is required")
	}
	if cfg.Knowledge == nil {
		return nil, errors.New("knowledge source is required")
	}
	if cfg.Chat == nil {
		return nil, errors.New("chat handler is required")
	}
	if cfg.RateLimiter == nil {
		return nil, errors.New("rate limiter is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ah := &askHandler{
		logger:     logger,
		chat:       cfg.Chat,
		knowledge:  cfg.Knowledge,
		limiter:    cfg.RateLimiter,
		quota:      cfg.Quota,
		trustProxy: cfg.TrustProxy,
	}
	hh := &healthHandler{
		logger: logger,
		loader: cfg.Loader,
		chat:   cfg.Chat,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ask", ah.ask)
	mux.HandleFunc("GET /api/health", hh.health)
	mux.HandleFunc("GET /api/suggested-questions", suggestedQuestions)

	// Middleware stack (outermost first): Recovery -> RequestID -> Logging.
	// The request gate itself lives in the ask handler; health and
	// suggestions stay reachable even for rate-limited clients.
	var handler http.Handler = mux
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	top := http.NewServeMux()
	top.Handle("/", handler)

	return &Server{mux: top}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
