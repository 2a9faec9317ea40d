// Package coingecko is a typed client for the CoinGecko market data API.
//
// Responses are validated at this boundary: entries with missing or
// non-finite numbers are dropped and logged, so NaN never propagates
// into portfolio arithmetic.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is a CoinGecko API client
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new CoinGecko client. apiKey may be empty for the
// public rate-limited API.
func NewClient(baseURL, apiKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "coingecko").Logger(),
	}
}

// marketRow mirrors the wire shape of /coins/markets. Numeric fields
// are pointers because the API returns null for unpriced assets.
type marketRow struct {
	ID           string   `json:"id"`
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"current_price"`
	Change24h    *float64 `json:"price_change_percentage_24h"`
	TotalVolume  *float64 `json:"total_volume"`
	Sparkline    *struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

// Markets fetches the top assets by market cap, including their 7d
// sparkline. Malformed rows are skipped, not fatal.
func (c *Client) Markets(ctx context.Context, perPage int) ([]Market, error) {
	endpoint, err := url.Parse(c.baseURL + "/coins/markets")
	if err != nil {
		return nil, err
	}

	query := endpoint.Query()
	query.Set("vs_currency", "usd")
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", "1")
	query.Set("sparkline", "true")
	endpoint.RawQuery = query.Encode()

	var rows []marketRow
	if err := c.getJSON(ctx, endpoint.String(), &rows); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	markets := make([]Market, 0, len(rows))
	for _, row := range rows {
		if row.Symbol == "" || row.CurrentPrice == nil || !isFinite(*row.CurrentPrice) {
			c.log.Warn().Str("id", row.ID).Msg("Skipping market row without a usable price")
			continue
		}

		m := Market{
			ID:        row.ID,
			Symbol:    strings.ToUpper(row.Symbol),
			Name:      row.Name,
			PriceUSD:  *row.CurrentPrice,
			FetchedAt: now,
		}
		if row.Change24h != nil && isFinite(*row.Change24h) {
			m.Change24hPct = *row.Change24h
		}
		if row.TotalVolume != nil && isFinite(*row.TotalVolume) {
			m.VolumeUSD = *row.TotalVolume
		}
		if row.Sparkline != nil {
			m.Sparkline = finitePoints(row.Sparkline.Price)
		}

		markets = append(markets, m)
	}

	return markets, nil
}

// MarketChart fetches a chronologically ordered daily price series for
// an asset over the given lookback window.
func (c *Client) MarketChart(ctx context.Context, id string, days int) ([]PricePoint, error) {
	if id == "" {
		return nil, fmt.Errorf("asset id is required")
	}

	endpoint, err := url.Parse(fmt.Sprintf("%s/coins/%s/market_chart", c.baseURL, url.PathEscape(id)))
	if err != nil {
		return nil, err
	}

	query := endpoint.Query()
	query.Set("vs_currency", "usd")
	query.Set("days", strconv.Itoa(days))
	query.Set("interval", "daily")
	endpoint.RawQuery = query.Encode()

	var payload struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := c.getJSON(ctx, endpoint.String(), &payload); err != nil {
		return nil, err
	}

	points := make([]PricePoint, 0, len(payload.Prices))
	for _, pair := range payload.Prices {
		if len(pair) != 2 || !isFinite(pair[0]) || !isFinite(pair[1]) {
			c.log.Warn().Str("id", id).Msg("Skipping malformed price point")
			continue
		}
		points = append(points, PricePoint{
			Time:  time.UnixMilli(int64(pair[0])).UTC(),
			Price: pair[1],
		})
	}

	return points, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("coingecko request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("coingecko error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode coingecko response: %w", err)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// finitePoints filters non-finite values out of a sparkline series.
func finitePoints(points []float64) []float64 {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		if isFinite(p) {
			out = append(out, p)
		}
	}
	return out
}
