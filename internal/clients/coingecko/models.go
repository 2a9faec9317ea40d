package coingecko

import "time"

// Market is one asset row from the /coins/markets endpoint, validated
// and strongly typed before it reaches any arithmetic.
type Market struct {
	ID           string    `json:"id"` // CoinGecko asset id, e.g. "bitcoin"
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	PriceUSD     float64   `json:"price_usd"`
	Change24hPct float64   `json:"change_24h_pct"`
	VolumeUSD    float64   `json:"volume_usd"`
	Sparkline    []float64 `json:"sparkline"` // 7d price points, hourly
	FetchedAt    time.Time `json:"fetched_at"`
}

// PricePoint is a single observation of a historical price series.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}
