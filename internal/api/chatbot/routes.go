package chatbot

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chatbot dashboard routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chatbots", func(r chi.Router) {
		r.Post("/", h.CreateChatbot)
		r.Get("/", h.ListChatbots)

		r.Route("/{chatbot_id}", func(r chi.Router) {
			r.Get("/", h.GetChatbot)
			r.Put("/", h.UpdateChatbot)
			r.Delete("/", h.DeleteChatbot)
			r.Post("/publish", h.TogglePublish)
			r.Post("/clone", h.CloneChatbot)
		})
	})
}
