package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/vidronox/fleetcheck/internal/db"
)

// PhotoHandler serves stored vehicle and damage photos.
type PhotoHandler struct {
	photos db.PhotoStore
}

// NewPhotoHandler creates a new photo handler.
func NewPhotoHandler(photos db.PhotoStore) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// Get streams a photo by its stored name.
func (h *PhotoHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || strings.Contains(name, "/") {
		http.Error(w, "Invalid photo name", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.photos.DownloadPhoto(r.Context(), name, &buf); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Photo not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch photo", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(name))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
