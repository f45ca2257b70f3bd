package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	service "github.com/aesthetiq/beauty-battle/internal/app"
)

// multipartMemoryLimit is how much of a parsed form may stay in memory
// before net/http spills to its own temp files.
const multipartMemoryLimit = 8 << 20

// spoolUpload extracts the named file field from a multipart request and
// spools it to a uuid-named file under dir. The caller owns the returned
// Upload and must remove its Path on every exit path.
//
// Size and MIME checks happen before the spool file is created, so
// rejected requests leave no artifact behind.
func spoolUpload(w http.ResponseWriter, r *http.Request, field, dir string, maxBytes int64) (service.Upload, error) {
	// Bound the whole request body; multipart framing gets a little
	// headroom on top of the file cap.
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return service.Upload{}, ErrFileTooLarge
		}
		return service.Upload{}, fmt.Errorf("%w: malformed multipart form", ErrBadRequest)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return service.Upload{}, ErrMissingFile
	}
	defer file.Close()

	if header.Size > maxBytes {
		return service.Upload{}, ErrFileTooLarge
	}
	mimeType := header.Header.Get("Content-Type")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return service.Upload{}, fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+filepath.Ext(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return service.Upload{}, fmt.Errorf("create spool file: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return service.Upload{}, fmt.Errorf("spool upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return service.Upload{}, fmt.Errorf("spool upload: %w", err)
	}

	return service.Upload{
		Path:     path,
		Size:     header.Size,
		MIMEType: mimeType,
		Username: r.FormValue("username"),
	}, nil
}

// writeUploadError maps spooling failures to their HTTP responses.
func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingFile):
		writeError(w, http.StatusBadRequest, "missing_file", err)
	case errors.Is(err, ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", err)
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
