package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio trade routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Post("/buy", h.HandleBuy)
		r.Post("/sell", h.HandleSell)
		r.Get("/holdings", h.HandleGetHoldings)
		r.Get("/trades", h.HandleGetTrades)
	})
}
