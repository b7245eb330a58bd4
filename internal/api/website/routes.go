package website

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers website and wp sync routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/websites", func(r chi.Router) {
		r.Post("/", h.CreateWebsite)
		r.Get("/", h.ListWebsites)

		r.Route("/{website_id}", func(r chi.Router) {
			r.Get("/", h.GetWebsite)
			r.Put("/", h.UpdateWebsite)
			r.Delete("/", h.DeleteWebsite)
		})
	})

	r.Post("/wp-sync", h.SyncWpPost)
}
