package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/userbook/internal/config"
	"github.com/dukerupert/userbook/internal/directory"
	"github.com/dukerupert/userbook/internal/handler"
	"github.com/dukerupert/userbook/internal/middleware"
	"github.com/dukerupert/userbook/internal/notify"
	ws "github.com/dukerupert/userbook/internal/websocket"
)

// ShutdownReason is sent to open screens when the server stops.
const ShutdownReason = "server shutting down"

type Server struct {
	hub             *ws.Hub
	directoryScreen ws.ScreenFactory
	groceryScreen   ws.ScreenFactory
	rateLimiter     *middleware.RateLimiter
	screenLimit     int
	logger          *slog.Logger
}

func New(cfg *config.Config, fetcher directory.Fetcher, logger *slog.Logger) (*Server, error) {
	locale, err := cfg.Language()
	if err != nil {
		return nil, err
	}
	return &Server{
		hub:             ws.NewHub(logger.With("component", "websocket")),
		directoryScreen: handler.NewDirectoryScreenFactory(fetcher, logger.With("component", "directory")),
		groceryScreen:   handler.NewGroceryScreenFactory(locale, logger.With("component", "grocery")),
		rateLimiter:     middleware.NewRateLimiter(),
		screenLimit:     cfg.ScreenRateLimit,
		logger:          logger,
	}, nil
}

// Hub returns the connection hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws/directory", s.rateLimitedHandler(ws.HandleScreen(s.hub, "directory", s.directoryScreen)))
	mux.HandleFunc("GET /ws/grocery", s.rateLimitedHandler(ws.HandleScreen(s.hub, "grocery", s.groceryScreen)))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

// Shutdown tells every open screen the server is going away and closes it.
func (s *Server) Shutdown(ctx context.Context) {
	s.hub.Broadcast(ws.Alert(notify.Notification{
		Level:   notify.LevelInfo,
		Title:   "Goodbye",
		Message: ShutdownReason,
	}))
	s.hub.CloseAll(ShutdownReason)

	// Give read loops a moment to unregister.
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for s.hub.ClientCount() > 0 {
		select {
		case <-ctx.Done():
			s.logger.Warn("screens still open at shutdown", "count", s.hub.ClientCount())
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"screens": s.hub.ScreenCounts(),
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, s.screenLimit, time.Minute)
	return rl(h).ServeHTTP
}
