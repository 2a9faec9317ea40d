package formulas

import (
	"gonum.org/v1/gonum/stat"
)

// Volatility computes the standard deviation of period-over-period
// simple returns of a price series.
//
// Returns 0 for series with fewer than three points (fewer than two
// returns). Zero prices produce no return for that step rather than an
// infinite one.
func Volatility(prices []float64) float64 {
	if len(prices) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, prices[i]/prices[i-1]-1)
	}

	if len(returns) < 2 {
		return 0
	}

	return stat.StdDev(returns, nil)
}
