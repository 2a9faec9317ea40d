package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avgerin0s/cryptofolio/internal/clients/coingecko"
	"github.com/avgerin0s/cryptofolio/internal/database"
	"github.com/avgerin0s/cryptofolio/internal/modules/ledger"
	"github.com/avgerin0s/cryptofolio/internal/modules/market"
)

type stubSource struct {
	markets []coingecko.Market
	err     error
}

func (s *stubSource) Markets(ctx context.Context, perPage int) ([]coingecko.Market, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.markets, nil
}

type stubHoldings struct {
	holdings ledger.Ledger
}

func (s *stubHoldings) Holdings() ledger.Ledger {
	return s.holdings
}

func setupTestRouter(t *testing.T, source market.Source, holdings ledger.Ledger) *chi.Mux {
	t.Helper()
	db, err := database.New("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zerolog.Nop()
	cache := market.NewCacheRepository(db.Conn(), log)
	svc := market.NewService(source, cache, 10, 2, log)

	router := chi.NewRouter()
	NewHandler(svc, &stubHoldings{holdings: holdings}, log).RegisterRoutes(router)
	return router
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandleGetPortfolio(t *testing.T) {
	source := &stubSource{markets: []coingecko.Market{
		{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", PriceUSD: 100, FetchedAt: time.Now()},
	}}
	holdings := ledger.Ledger{
		"BTC":  {Symbol: "BTC", Amount: 2, CostBasisUSD: 150},
		"DOGE": {Symbol: "DOGE", Amount: 500},
	}
	router := setupTestRouter(t, source, holdings)

	rec := doGet(t, router, "/portfolio")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp market.AggregateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Assets, 1)
	assert.Equal(t, "BTC", resp.Assets[0].Symbol)
	assert.Equal(t, 200.0, resp.Assets[0].ValueUSD)
	assert.Equal(t, 100.0, resp.Assets[0].AllocationPct)
	assert.Equal(t, 200.0, resp.TotalUSD)
	assert.Equal(t, []string{"DOGE"}, resp.Unpriced)
}

func TestHandleGetPortfolio_SourceUnavailable(t *testing.T) {
	source := &stubSource{err: errors.New("upstream down")}
	router := setupTestRouter(t, source, ledger.Ledger{})

	rec := doGet(t, router, "/portfolio")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "market data unavailable", resp["error"])
}

func TestHandleGetOverview(t *testing.T) {
	source := &stubSource{markets: []coingecko.Market{
		{ID: "solana", Symbol: "SOL", Name: "Solana", PriceUSD: 142.1, Change24hPct: 4.2, VolumeUSD: 900e6, FetchedAt: time.Now()},
	}}
	router := setupTestRouter(t, source, ledger.Ledger{})

	rec := doGet(t, router, "/market/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Assets []market.OverviewRow `json:"assets"`
		Count  int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "SOL", resp.Assets[0].Symbol)
	assert.Equal(t, "$900.0M", resp.Assets[0].Volume)
}
