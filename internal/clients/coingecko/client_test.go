package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkets_DecodesAndValidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "true", r.URL.Query().Get("sparkline"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"id": "bitcoin", "symbol": "btc", "name": "Bitcoin",
				"current_price": 67428.5,
				"price_change_percentage_24h": -0.87,
				"total_volume": 28000000000,
				"sparkline_in_7d": {"price": [67000, 67200, 67400]}
			},
			{
				"id": "broken", "symbol": "brk", "name": "Broken",
				"current_price": null
			},
			{
				"id": "ethereum", "symbol": "eth", "name": "Ethereum",
				"current_price": 3510.75,
				"price_change_percentage_24h": null,
				"total_volume": 12000000000
			}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", zerolog.Nop())
	markets, err := client.Markets(context.Background(), 10)
	require.NoError(t, err)

	// The null-priced row is dropped at the boundary.
	require.Len(t, markets, 2)

	btc := markets[0]
	assert.Equal(t, "BTC", btc.Symbol)
	assert.Equal(t, 67428.5, btc.PriceUSD)
	assert.Equal(t, -0.87, btc.Change24hPct)
	assert.Len(t, btc.Sparkline, 3)

	// A null change decodes to zero rather than NaN.
	eth := markets[1]
	assert.Equal(t, "ETH", eth.Symbol)
	assert.Equal(t, 0.0, eth.Change24hPct)
}

func TestMarkets_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", zerolog.Nop())
	_, err := client.Markets(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestMarketChart_DecodesSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"prices": [[1756339200000, 67000.1], [1756425600000, 67400.2], [1756512000000]]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", zerolog.Nop())
	points, err := client.MarketChart(context.Background(), "bitcoin", 7)
	require.NoError(t, err)

	// The malformed single-element pair is skipped.
	require.Len(t, points, 2)
	assert.Equal(t, 67000.1, points[0].Price)
	assert.True(t, points[0].Time.Before(points[1].Time))
}

func TestMarketChart_RequiresID(t *testing.T) {
	client := NewClient("http://localhost", "", zerolog.Nop())
	_, err := client.MarketChart(context.Background(), "", 7)
	require.Error(t, err)
}

func TestAPIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-cg-demo-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", zerolog.Nop())
	_, err := client.Markets(context.Background(), 5)
	require.NoError(t, err)
}
