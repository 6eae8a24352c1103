package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/coin-ticker/internal/history"
	"github.com/rickgao/coin-ticker/internal/hub"
	"github.com/rickgao/coin-ticker/internal/program"
	"github.com/rickgao/coin-ticker/internal/version"
)

// Source provides the latest frame and loop counters.
type Source interface {
	Current() program.Frame
	Stats() program.Stats
}

// HistoryStats reports history writer counters.
type HistoryStats interface {
	Stats() history.Metrics
}

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the ticker endpoints.
type Server struct {
	source  Source
	hub     *hub.Hub
	history HistoryStats
	db      Pinger
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithHistory reports history writer stats in /health.
func WithHistory(h HistoryStats) Option {
	return func(s *Server) {
		s.history = h
	}
}

// WithDatabase pings the database from /health.
func WithDatabase(p Pinger) Option {
	return func(s *Server) {
		s.db = p
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server.
func New(source Source, h *hub.Hub, opts ...Option) *Server {
	s := &Server{
		source: source,
		hub:    h,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.Handle("GET /ws", s.hub)
	mux.HandleFunc("GET /api/ticker", s.handleTicker)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	fr := s.source.Current()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPage(w, fr); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// TickerResponse is the body of GET /api/ticker.
type TickerResponse struct {
	Price       float64 `json:"price"`
	Display     string  `json:"display"`
	Rate        string  `json:"rate,omitempty"`
	LastUpdated string  `json:"last_updated"`
	Currency    string  `json:"currency"`
	Symbol      string  `json:"symbol"`
	Digits      []int   `json:"digits"`
	Revision    uint64  `json:"revision"`
	At          string  `json:"at"`
}

func (s *Server) handleTicker(w http.ResponseWriter, r *http.Request) {
	fr := s.source.Current()
	snap := fr.Snapshot

	resp := TickerResponse{
		Price:       snap.Price,
		Display:     snap.Display(),
		Rate:        snap.Rate,
		LastUpdated: snap.LastUpdated,
		Currency:    snap.Currency,
		Symbol:      snap.Symbol,
		Digits:      snap.Digits[:],
		Revision:    snap.Revision,
	}
	if !fr.At.IsZero() {
		resp.At = fr.At.UTC().Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats := s.source.Stats()
	health := struct {
		Status     string                 `json:"status"`
		Version    version.Info           `json:"version"`
		Components map[string]interface{} `json:"components"`
	}{
		Status:     "healthy",
		Version:    version.Get(),
		Components: make(map[string]interface{}),
	}

	health.Components["program"] = stats
	if stats.LastError != "" {
		health.Status = "degraded"
	}

	health.Components["hub"] = map[string]interface{}{
		"clients": s.hub.Clients(),
		"dropped": s.hub.Dropped(),
	}

	if s.history != nil {
		health.Components["history"] = s.history.Stats()
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["database"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["database"] = "connected"
		}
	}

	code := http.StatusOK
	if health.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
