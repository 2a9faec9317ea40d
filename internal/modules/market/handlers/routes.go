package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all market data routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolio", h.HandleGetPortfolio)

	r.Route("/market", func(r chi.Router) {
		r.Get("/overview", h.HandleGetOverview)
		r.Get("/popular", h.HandleGetPopular)
		r.Get("/risk", h.HandleGetRisk)
		r.Post("/refresh", h.HandleRefresh)
	})
}
