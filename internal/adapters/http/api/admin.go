package api

import (
	"context"
	"net/http"

	"github.com/aesthetiq/beauty-battle/internal/domain/stats"
)

// AdminDependencies defines the interface for the admin summary.
type AdminDependencies interface {
	Summary(ctx context.Context) (stats.Summary, error)
}

// AdminHandler serves the aggregate statistics for the admin page.
type AdminHandler struct {
	deps AdminDependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// HandleSummary handles GET /api/admin/summary requests. The statistics
// are recomputed from the full snapshot on every call.
func (h *AdminHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	summary, err := h.deps.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
