// Package formulas provides pure financial calculations used across modules.
package formulas

import "math"

// RiskLevel is a coarse risk bucket derived from the magnitude of a
// percentage price change.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ClassifyRisk maps a 24h percentage change to a discrete risk level.
//
// |change| < 1 -> Low, < 3 -> Medium, else High.
//
// The input must be a finite number; callers validate upstream data
// before it reaches arithmetic (NaN would otherwise bucket as High).
func ClassifyRisk(changePct float64) RiskLevel {
	abs := math.Abs(changePct)
	if abs < 1 {
		return RiskLow
	}
	if abs < 3 {
		return RiskMedium
	}
	return RiskHigh
}

// GlobalRiskScore computes a 0-10 portfolio-wide risk score from recent
// price series: the average of |last - first| across series with at
// least two points, scaled x10 and clamped to 10.
//
// Series with fewer than two points are excluded. Returns 0 when no
// series qualifies.
func GlobalRiskScore(series [][]float64) float64 {
	sum := 0.0
	qualifying := 0

	for _, prices := range series {
		if len(prices) < 2 {
			continue
		}
		sum += math.Abs(prices[len(prices)-1] - prices[0])
		qualifying++
	}

	if qualifying == 0 {
		return 0
	}

	score := (sum / float64(qualifying)) * 10
	if score > 10 {
		return 10
	}
	return score
}
