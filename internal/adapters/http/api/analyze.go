package api

import (
	"context"
	"net/http"
	"os"

	service "github.com/aesthetiq/beauty-battle/internal/app"
)

// AnalyzeDependencies defines the interface for styling analysis.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, up service.Upload) (string, error)
}

// AnalyzeHandler handles styling analysis requests.
type AnalyzeHandler struct {
	deps      AnalyzeDependencies
	uploadDir string
	maxBytes  int64
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies) *AnalyzeHandler {
	return &AnalyzeHandler{
		deps:      deps,
		uploadDir: defaultUploadDir,
		maxBytes:  defaultMaxUploadBytes,
	}
}

type analyzeResponse struct {
	Suggestions string `json:"suggestions"`
	Message     string `json:"message"`
	Success     bool   `json:"success"`
}

// HandleAnalyze handles POST /api/gemini/analyze requests: multipart
// "image" field. Results are neither scored nor persisted.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	up, err := spoolUpload(w, r, "image", h.uploadDir, h.maxBytes)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	defer func() {
		if up.Path != "" {
			_ = os.Remove(up.Path)
		}
	}()

	suggestions, err := h.deps.Analyze(r.Context(), up)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Suggestions: suggestions,
		Message:     "Analysis complete!",
		Success:     true,
	})
}
