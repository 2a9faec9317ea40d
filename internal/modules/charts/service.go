// Package charts builds normalized comparison series from historical
// prices.
package charts

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrEmptySeries is returned for an input series with no points.
	ErrEmptySeries = errors.New("price series has no points")

	// ErrInvalidBasePrice is returned when a series starts at a zero
	// price, which would make percentage change undefined.
	ErrInvalidBasePrice = errors.New("price series base price is zero")
)

// PricePoint is a single observation of a price series.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// PerformanceSeries is one asset's percentage change relative to its
// own first observation, aligned to the comparison's shared axis.
type PerformanceSeries struct {
	Symbol string    `json:"symbol"`
	Points []float64 `json:"points"`
}

// Comparison is the aligned result of normalizing several assets over
// a timeframe. Skipped maps symbols to the reason their series was
// dropped (malformed upstream data is not fatal to the whole result).
type Comparison struct {
	Days    int                 `json:"days"`
	Axis    []time.Time         `json:"axis"`
	Series  []PerformanceSeries `json:"series"`
	Skipped map[string]string   `json:"skipped,omitempty"`
}

// Service builds comparison chart data
type Service struct {
	log zerolog.Logger
}

// NewService creates a new charts service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "charts").Logger(),
	}
}

// Normalize converts a price series to percentage change from its own
// first point, rounded to two decimals: ((p_i / p_0) - 1) * 100.
//
// The first value is always 0. Each asset is normalized against its
// own base so assets of different price scales stay comparable.
func (s *Service) Normalize(points []PricePoint) ([]float64, error) {
	if len(points) == 0 {
		return nil, ErrEmptySeries
	}

	base := points[0].Price
	if base == 0 {
		return nil, ErrInvalidBasePrice
	}

	out := make([]float64, len(points))
	for i, pt := range points {
		out[i] = math.Round((pt.Price/base-1)*100*100) / 100
	}
	return out, nil
}

// BuildComparison normalizes each asset's series over the timeframe
// and aligns them to a shared date axis.
//
// Each series is windowed to the last timeframeDays of its own
// observations, then all series are truncated to the shortest length.
// The axis is taken from the first surviving asset in symbol order.
// Assets whose series are empty or start at zero are skipped and
// reported, not fatal. Pure function of its inputs.
func (s *Service) BuildComparison(input map[string][]PricePoint, timeframeDays int) Comparison {
	result := Comparison{
		Days:    timeframeDays,
		Skipped: make(map[string]string),
	}

	symbols := make([]string, 0, len(input))
	for symbol := range input {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	type normalized struct {
		symbol string
		window []PricePoint
		pcts   []float64
	}

	survivors := make([]normalized, 0, len(symbols))
	minLen := 0

	for _, symbol := range symbols {
		window := windowPoints(input[symbol], timeframeDays)
		pcts, err := s.Normalize(window)
		if err != nil {
			s.log.Warn().Str("symbol", symbol).Err(err).Msg("Skipping series in comparison")
			result.Skipped[symbol] = err.Error()
			continue
		}

		survivors = append(survivors, normalized{symbol: symbol, window: window, pcts: pcts})
		if minLen == 0 || len(pcts) < minLen {
			minLen = len(pcts)
		}
	}

	if len(survivors) == 0 {
		return result
	}

	// Shared axis from the reference (first) asset, truncated to the
	// shortest series so every asset has a value per axis point.
	reference := survivors[0]
	result.Axis = make([]time.Time, minLen)
	for i := 0; i < minLen; i++ {
		result.Axis[i] = reference.window[i].Time
	}

	result.Series = make([]PerformanceSeries, 0, len(survivors))
	for _, n := range survivors {
		result.Series = append(result.Series, PerformanceSeries{
			Symbol: n.symbol,
			Points: n.pcts[:minLen],
		})
	}

	return result
}

// windowPoints returns the trailing timeframeDays of a series,
// relative to the series' own last observation.
func windowPoints(points []PricePoint, timeframeDays int) []PricePoint {
	if len(points) == 0 || timeframeDays <= 0 {
		return points
	}

	cutoff := points[len(points)-1].Time.AddDate(0, 0, -timeframeDays)
	for i, pt := range points {
		if !pt.Time.Before(cutoff) {
			return points[i:]
		}
	}
	return points[len(points)-1:]
}
