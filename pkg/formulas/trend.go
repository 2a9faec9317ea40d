package formulas

import (
	talib "github.com/markcheno/go-talib"
)

// Trend direction of a price series relative to its recent average.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// trendSMAPeriod is the moving-average window used for trend detection.
const trendSMAPeriod = 7

// trendTolerance is the relative band around the SMA inside which a
// price is considered flat.
const trendTolerance = 0.001

// ClassifyTrend compares the latest price against its simple moving
// average. Series shorter than the SMA window are reported flat.
func ClassifyTrend(prices []float64) Trend {
	if len(prices) < trendSMAPeriod {
		return TrendFlat
	}

	sma := talib.Sma(prices, trendSMAPeriod)
	avg := sma[len(sma)-1]
	last := prices[len(prices)-1]

	if avg == 0 {
		return TrendFlat
	}

	switch {
	case last > avg*(1+trendTolerance):
		return TrendUp
	case last < avg*(1-trendTolerance):
		return TrendDown
	default:
		return TrendFlat
	}
}
