// Package handlers provides HTTP handlers for market data and the
// priced portfolio view.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/avgerin0s/cryptofolio/internal/modules/ledger"
	"github.com/avgerin0s/cryptofolio/internal/modules/market"
)

// HoldingsProvider exposes the current ledger for aggregation.
type HoldingsProvider interface {
	Holdings() ledger.Ledger
}

// Handler handles market data HTTP requests
type Handler struct {
	service  *market.Service
	holdings HoldingsProvider
	log      zerolog.Logger
}

// NewHandler creates a new market handler
func NewHandler(service *market.Service, holdings HoldingsProvider, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		holdings: holdings,
		log:      log.With().Str("handler", "market").Logger(),
	}
}

// HandleGetPortfolio handles GET /api/portfolio — holdings priced
// against the latest snapshot batch.
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.service.Snapshots(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get market snapshots")
		respondError(w, http.StatusBadGateway, "market data unavailable")
		return
	}

	result := market.Aggregate(h.holdings.Holdings(), snapshots)
	respondJSON(w, http.StatusOK, result)
}

// HandleGetOverview handles GET /api/market/overview
func (h *Handler) HandleGetOverview(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Overview(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build market overview")
		respondError(w, http.StatusBadGateway, "market data unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assets": rows,
		"count":  len(rows),
	})
}

// HandleGetPopular handles GET /api/market/popular
func (h *Handler) HandleGetPopular(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.Popular(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get popular assets")
		respondError(w, http.StatusBadGateway, "market data unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assets": assets,
	})
}

// HandleGetRisk handles GET /api/market/risk
func (h *Handler) HandleGetRisk(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.GlobalRisk(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute global risk")
		respondError(w, http.StatusBadGateway, "market data unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"score": score,
		"scale": 10,
	})
}

// HandleRefresh handles POST /api/market/refresh — forces a snapshot
// cache refresh outside the scheduled cycle.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Manual snapshot refresh failed")
		respondError(w, http.StatusBadGateway, "refresh failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
