// Package handlers provides HTTP handlers for portfolio trade operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/avgerin0s/cryptofolio/internal/modules/ledger"
)

// Handler handles portfolio trade HTTP requests
type Handler struct {
	service *ledger.Service
	log     zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(service *ledger.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "ledger").Logger(),
	}
}

// tradeRequest is the body of buy/sell requests.
type tradeRequest struct {
	Symbol   string  `json:"symbol"`
	Amount   float64 `json:"amount"`
	PriceUSD float64 `json:"price_usd"`
}

// HandleBuy handles POST /api/portfolio/buy
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	h.handleTrade(w, r, h.service.Buy)
}

// HandleSell handles POST /api/portfolio/sell
func (h *Handler) HandleSell(w http.ResponseWriter, r *http.Request) {
	h.handleTrade(w, r, h.service.Sell)
}

func (h *Handler) handleTrade(w http.ResponseWriter, r *http.Request, exec func(string, float64, float64) (ledger.Position, error)) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pos, err := exec(req.Symbol, req.Amount, req.PriceUSD)
	if err != nil {
		h.respondTradeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"position": pos,
	})
}

// HandleGetHoldings handles GET /api/portfolio/holdings
func (h *Handler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings := h.service.Holdings()

	positions := make([]ledger.Position, 0, len(holdings))
	for _, symbol := range holdings.Symbols() {
		positions = append(positions, holdings[symbol])
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": positions,
		"count":    len(positions),
	})
}

// HandleGetTrades handles GET /api/portfolio/trades
func (h *Handler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	trades := h.service.Trades()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trades": trades,
		"count":  len(trades),
	})
}

func (h *Handler) respondTradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientHoldings):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidPrice),
		errors.Is(err, ledger.ErrInvalidSymbol):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Trade failed")
		respondError(w, http.StatusInternalServerError, "trade failed")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
