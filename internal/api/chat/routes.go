package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the public chat widget routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/", h.ChatTurn)
		r.Get("/config", h.GetConfig)
	})
}
