package market

import (
	"sort"
	"strings"

	"github.com/avgerin0s/cryptofolio/internal/modules/ledger"
)

// Aggregate prices the held positions against a snapshot batch.
//
// Symbols match case-insensitively. Held symbols missing from the
// batch are reported as unpriced, not valued at zero. When the total
// portfolio value is zero every allocation is 0, never NaN.
//
// Pure function of its inputs; safe to call concurrently.
func Aggregate(holdings ledger.Ledger, snapshots []Snapshot) AggregateResult {
	bySymbol := make(map[string]Snapshot, len(snapshots))
	for _, snap := range snapshots {
		bySymbol[strings.ToUpper(snap.Symbol)] = snap
	}

	result := AggregateResult{
		Assets: make([]HeldAssetView, 0, len(holdings)),
	}

	for _, symbol := range holdings.Symbols() {
		pos := holdings[symbol]
		snap, ok := bySymbol[symbol]
		if !ok {
			result.Unpriced = append(result.Unpriced, symbol)
			continue
		}

		value := pos.Amount * snap.PriceUSD
		result.TotalUSD += value
		result.Assets = append(result.Assets, HeldAssetView{
			Symbol:   symbol,
			Amount:   pos.Amount,
			PriceUSD: snap.PriceUSD,
			ValueUSD: value,
		})
	}

	if result.TotalUSD > 0 {
		for i := range result.Assets {
			result.Assets[i].AllocationPct = result.Assets[i].ValueUSD / result.TotalUSD * 100
		}
	}

	sort.Strings(result.Unpriced)
	return result
}
