package training

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers training routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/trainings", func(r chi.Router) {
		r.Post("/", h.CreateTraining)
		r.Get("/", h.ListTrainings)

		r.Route("/{training_id}", func(r chi.Router) {
			r.Get("/", h.GetTraining)
			r.Delete("/", h.DeleteTraining)
		})
	})
}
