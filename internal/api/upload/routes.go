package upload

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the upload staging route
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/uploads", h.UploadFiles)
}
