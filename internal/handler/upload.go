package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sakif/memories-api/internal/apperror"
)

// maxUploadBytes caps a single multipart upload at 5 MiB.
const maxUploadBytes = 5 << 20

// UploadHandler accepts multipart file uploads and persists them under a
// static root directory. The server separately serves that directory
// read-only under /uploads/, so the returned fileUrl is immediately
// fetchable.
//
// Files are stored under a fresh UUID plus the original extension, so
// concurrent uploads never collide on name. There is no content-type or
// ownership tracking: the file store is a dumb collaborator, not core logic.
type UploadHandler struct {
	dir     string // destination directory, created by the server at startup
	baseURL string // public prefix the server mounts the directory under
	logger  *slog.Logger
}

// NewUploadHandler creates an UploadHandler writing into dir and advertising
// URLs under baseURL (e.g. "/uploads").
func NewUploadHandler(dir, baseURL string, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		dir:     dir,
		baseURL: baseURL,
		logger:  logger,
	}
}

// HandleUpload stores the uploaded file and returns its public URL.
//
// HTTP: POST /uploads
// Body: multipart form with a "file" part
// Response: {"fileUrl": "/uploads/<uuid><ext>"}
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperror.ValidationFailed("file", "a multipart \"file\" part is required"))
		return
	}
	defer file.Close()

	// Keep only the extension from the client-supplied name; the base name
	// is replaced with a UUID.
	name := uuid.NewString() + filepath.Ext(header.Filename)
	path := filepath.Join(h.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		h.logger.Error("upload: creating file failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		writeError(w, fmt.Errorf("creating upload file: %w", err))
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.logger.Error("upload: writing file failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		writeError(w, fmt.Errorf("writing upload file: %w", err))
		return
	}

	h.logger.Info("file uploaded",
		slog.String("name", name),
		slog.Int64("size", header.Size),
	)

	writeJSON(w, http.StatusOK, map[string]string{
		"fileUrl": h.baseURL + "/" + name,
	})
}
