// Package market aggregates live market snapshots against held positions.
package market

import (
	"time"

	"github.com/avgerin0s/cryptofolio/pkg/formulas"
)

// Snapshot is one asset's current market state. Produced by the data
// source, read-only to this module; one per asset per fetch cycle.
type Snapshot struct {
	ID           string    `json:"id"` // data source asset id, e.g. "bitcoin"
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	PriceUSD     float64   `json:"price_usd"`
	Change24hPct float64   `json:"change_24h_pct"`
	VolumeUSD    float64   `json:"volume_usd"`
	Sparkline    []float64 `json:"sparkline,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// HeldAssetView is a held position priced against a snapshot.
// Recomputed fresh on every aggregation, never persisted.
type HeldAssetView struct {
	Symbol        string  `json:"symbol"`
	Amount        float64 `json:"amount"`
	PriceUSD      float64 `json:"price_usd"`
	ValueUSD      float64 `json:"value_usd"`
	AllocationPct float64 `json:"allocation_pct"`
}

// AggregateResult is the priced portfolio. Unpriced lists held symbols
// absent from the snapshot batch, so missing data is distinguishable
// from zero value.
type AggregateResult struct {
	Assets   []HeldAssetView `json:"assets"`
	TotalUSD float64         `json:"total_usd"`
	Unpriced []string        `json:"unpriced,omitempty"`
}

// OverviewRow is one row of the market overview table.
type OverviewRow struct {
	Symbol       string             `json:"symbol"`
	Name         string             `json:"name"`
	PriceUSD     float64            `json:"price_usd"`
	Change24hPct float64            `json:"change_24h_pct"`
	Volume       string             `json:"volume"` // compact, e.g. "$28.0B"
	Risk         formulas.RiskLevel `json:"risk"`
	Trend        formulas.Trend     `json:"trend"`
	Volatility   float64            `json:"volatility"`
}

// PopularAsset is a top asset with its recent sparkline for display.
type PopularAsset struct {
	Symbol    string                  `json:"symbol"`
	Name      string                  `json:"name"`
	PriceUSD  float64                 `json:"price_usd"`
	Sparkline []float64               `json:"sparkline"`
	Range     formulas.SparklineRange `json:"range"`
}
