package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/aesthetiq/beauty-battle/internal/domain/model"
)

// LeaderboardDependencies defines the interface for the read views.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context) ([]model.Record, error)
	TopScores(ctx context.Context, limit int) ([]model.Record, error)
	UserHistory(ctx context.Context, username string) ([]model.Record, error)
}

// LeaderboardHandler handles the three leaderboard read views.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /api/leaderboard requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	records, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRecords(w, records)
}

// HandleGetTop handles GET /api/leaderboard/top?limit=N requests.
// A missing, unparsable, or non-positive limit falls back to the default.
func (h *LeaderboardHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 0
	}
	records, err := h.deps.TopScores(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRecords(w, records)
}

// HandleGetUserHistory handles GET /api/leaderboard/user/{username}
// requests. The match is exact and case-sensitive.
func (h *LeaderboardHandler) HandleGetUserHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	username := strings.TrimPrefix(r.URL.Path, "/api/leaderboard/user/")
	if username == "" || strings.Contains(username, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	records, err := h.deps.UserHistory(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRecords(w, records)
}

// writeRecords always encodes a JSON array, never null.
func writeRecords(w http.ResponseWriter, records []model.Record) {
	if records == nil {
		records = []model.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}
