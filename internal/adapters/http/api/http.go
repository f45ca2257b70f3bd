// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	service "github.com/aesthetiq/beauty-battle/internal/app"
	"github.com/aesthetiq/beauty-battle/internal/domain/model"
	"github.com/aesthetiq/beauty-battle/internal/domain/stats"
)

// Default upload handling configuration.
const (
	defaultMaxUploadBytes = 5 << 20 // 5MB, matching the original API
	defaultUploadDir      = "uploads"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Submit(ctx context.Context, up service.Upload) (float64, error)
	Analyze(ctx context.Context, up service.Upload) (string, error)
	Leaderboard(ctx context.Context) ([]model.Record, error)
	TopScores(ctx context.Context, limit int) ([]model.Record, error)
	UserHistory(ctx context.Context, username string) ([]model.Record, error)
	Summary(ctx context.Context) (stats.Summary, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	predictHandler     *PredictHandler
	analyzeHandler     *AnalyzeHandler
	leaderboardHandler *LeaderboardHandler
	adminHandler       *AdminHandler

	corsOrigins   []string
	uploadLimiter *rate.Limiter
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithCORSOrigins sets the allowed cross-origin request origins.
func WithCORSOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithUploadRateLimit bounds the rate of upload requests across both
// upload endpoints; every upload costs an external inference call.
func WithUploadRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.uploadLimiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithUploadDir sets the spool directory for uploaded images.
func WithUploadDir(dir string) ServerOption {
	return func(s *Server) {
		if dir != "" {
			s.predictHandler.uploadDir = dir
			s.analyzeHandler.uploadDir = dir
		}
	}
}

// WithMaxUploadBytes caps the accepted upload size.
func WithMaxUploadBytes(n int64) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.predictHandler.maxBytes = n
			s.analyzeHandler.maxBytes = n
		}
	}
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		predictHandler:     NewPredictHandler(deps),
		analyzeHandler:     NewAnalyzeHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		adminHandler:       NewAdminHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	chain := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return MetricsMiddleware(RecoverMiddleware(CORSMiddleware(h, s.corsOrigins)), endpoint)
	}
	upload := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return chain(RateLimitMiddleware(h, s.uploadLimiter), endpoint)
	}

	mux.HandleFunc("/api/health", chain(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/api/predict", upload(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/api/gemini/analyze", upload(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/api/leaderboard", chain(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/api/leaderboard/top", chain(s.leaderboardHandler.HandleGetTop, "leaderboard_top"))
	mux.HandleFunc("/api/leaderboard/user/", chain(s.leaderboardHandler.HandleGetUserHistory, "leaderboard_user"))
	mux.HandleFunc("/api/admin/summary", chain(s.adminHandler.HandleSummary, "admin_summary"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates the service error taxonomy to HTTP.
// Unclassified errors become a generic 500 so internals never leak.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, service.ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	case errors.Is(err, service.ErrStorage):
		writeError(w, http.StatusServiceUnavailable, "storage_error", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
