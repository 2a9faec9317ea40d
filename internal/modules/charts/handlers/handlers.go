// Package handlers provides HTTP handlers for comparison chart data.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/avgerin0s/cryptofolio/internal/clients/coingecko"
	"github.com/avgerin0s/cryptofolio/internal/modules/charts"
)

// allowedTimeframes are the selectable comparison windows in days.
var allowedTimeframes = map[int]bool{7: true, 30: true, 90: true}

// SeriesSource fetches a historical price series for an asset id.
type SeriesSource interface {
	MarketChart(ctx context.Context, id string, days int) ([]coingecko.PricePoint, error)
}

// SymbolResolver maps ticker symbols to data source asset ids.
type SymbolResolver interface {
	ResolveID(ctx context.Context, symbol string) (string, bool, error)
}

// Handler handles chart HTTP requests
type Handler struct {
	service  *charts.Service
	source   SeriesSource
	resolver SymbolResolver
	log      zerolog.Logger
}

// NewHandler creates a new charts handler
func NewHandler(service *charts.Service, source SeriesSource, resolver SymbolResolver, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		source:   source,
		resolver: resolver,
		log:      log.With().Str("handler", "charts").Logger(),
	}
}

// HandleCompare handles GET /api/charts/compare?symbols=BTC,ETH&days=30
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	symbols := parseSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		respondError(w, http.StatusBadRequest, "symbols query parameter is required")
		return
	}

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || !allowedTimeframes[parsed] {
			respondError(w, http.StatusBadRequest, "days must be one of 7, 30, 90")
			return
		}
		days = parsed
	}

	input := make(map[string][]charts.PricePoint, len(symbols))
	fetchErrors := make(map[string]string)

	for _, symbol := range symbols {
		id, ok, err := h.resolver.ResolveID(r.Context(), symbol)
		if err != nil {
			h.log.Error().Err(err).Msg("Symbol resolution failed")
			respondError(w, http.StatusBadGateway, "market data unavailable")
			return
		}
		if !ok {
			fetchErrors[symbol] = "unknown symbol"
			continue
		}

		points, err := h.source.MarketChart(r.Context(), id, days)
		if err != nil {
			// One asset's feed failure should not abort the comparison.
			h.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to fetch price series")
			fetchErrors[symbol] = "price series unavailable"
			continue
		}

		converted := make([]charts.PricePoint, len(points))
		for i, pt := range points {
			converted[i] = charts.PricePoint(pt)
		}
		input[symbol] = converted
	}

	result := h.service.BuildComparison(input, days)
	for symbol, reason := range fetchErrors {
		if result.Skipped == nil {
			result.Skipped = make(map[string]string)
		}
		result.Skipped[symbol] = reason
	}

	respondJSON(w, http.StatusOK, result)
}

// parseSymbols splits and canonicalizes a comma-separated symbol list.
func parseSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol == "" {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}
	return out
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
