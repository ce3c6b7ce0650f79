package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/tickerpulse/internal/monitoring"
)

// Routes registers every endpoint and wraps the mux in the middleware chain.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/stock/{symbol}", h.HandleStock)
	mux.HandleFunc("GET /api/news/{searchTerm}", h.HandleNews)
	mux.HandleFunc("GET /api/social/{searchTerm}", h.HandleSocial)
	mux.HandleFunc("GET /api/sentiment/{searchTerm}", h.HandleSentiment)
	mux.HandleFunc("GET /api/bundle/{searchTerm}", h.HandleBundle)
	mux.HandleFunc("GET /api/symbol/{query}", h.HandleSymbol)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.Handle("GET /metrics", monitoring.Handler())

	return withCORS(withRequestID(withLogging(withRecover(mux))))
}

type Server struct {
	httpServer *http.Server
}

func NewServer(port int, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start blocks until the server stops.
func (s *Server) Start() error {
	slog.Info("[Server] Listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("[Server] Shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
