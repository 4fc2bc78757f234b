package http

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/nomitake/timeclock-backend-go/internal/handler/http/response"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/storage"
)

type FilesHandler interface {
	Serve(w http.ResponseWriter, r *http.Request)
}

// FilesHandlerImpl streams stored files back to authenticated clients. The
// local storage backend hands out URLs under /uploads, so this handler is
// what makes those URLs resolvable.
type FilesHandlerImpl struct {
	storage storage.FileStorage
}

func NewFilesHandler(storage storage.FileStorage) FilesHandler {
	return &FilesHandlerImpl{storage: storage}
}

// Serve implements FilesHandler.
func (f *FilesHandlerImpl) Serve(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" {
		response.NotFound(w, "File not found")
		return
	}

	exists, err := f.storage.Exists(r.Context(), path)
	if err != nil {
		slog.Error("Serve file existence check error", "path", path, "error", err)
		response.InternalServerError(w, "Failed to read file")
		return
	}
	if !exists {
		response.NotFound(w, "File not found")
		return
	}

	file, err := f.storage.Download(r.Context(), path)
	if err != nil {
		slog.Error("Serve file download error", "path", path, "error", err)
		response.InternalServerError(w, "Failed to read file")
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, file); err != nil {
		slog.Error("Serve file stream error", "path", path, "error", err)
	}
}
