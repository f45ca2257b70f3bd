package api

import (
	"context"
	"net/http"
	"os"

	service "github.com/aesthetiq/beauty-battle/internal/app"
)

// PredictDependencies defines the interface for prediction ingestion.
type PredictDependencies interface {
	Submit(ctx context.Context, up service.Upload) (float64, error)
}

// PredictHandler handles prediction submissions.
type PredictHandler struct {
	deps      PredictDependencies
	uploadDir string
	maxBytes  int64
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{
		deps:      deps,
		uploadDir: defaultUploadDir,
		maxBytes:  defaultMaxUploadBytes,
	}
}

type predictResponse struct {
	Score   float64 `json:"score"`
	Message string  `json:"message"`
}

// HandlePredict handles POST /api/predict requests: multipart "file" plus
// a "username" field.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	up, err := spoolUpload(w, r, "file", h.uploadDir, h.maxBytes)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	// The service removes the spool file on its own exit paths; this
	// covers panics between here and the Submit call.
	defer func() {
		if up.Path != "" {
			_ = os.Remove(up.Path)
		}
	}()

	score, err := h.deps.Submit(r.Context(), up)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{
		Score:   score,
		Message: "Prediction successful!",
	})
}
