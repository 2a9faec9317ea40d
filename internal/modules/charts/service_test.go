package charts

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func series(prices ...float64) []PricePoint {
	out := make([]PricePoint, len(prices))
	for i, p := range prices {
		out[i] = PricePoint{Time: day(i), Price: p}
	}
	return out
}

func newTestService() *Service {
	return NewService(zerolog.Nop())
}

func TestNormalize_FirstPointIsZero(t *testing.T) {
	svc := newTestService()

	pcts, err := svc.Normalize(series(100, 110, 95))
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 10, -5}, pcts)
}

func TestNormalize_RoundsToTwoDecimals(t *testing.T) {
	svc := newTestService()

	pcts, err := svc.Normalize(series(3, 4))
	require.NoError(t, err)

	// 1/3 = 33.333...% rounds to 33.33
	assert.Equal(t, []float64{0, 33.33}, pcts)
}

func TestNormalize_IndependentBases(t *testing.T) {
	svc := newTestService()

	// Two assets at different scales but identical relative moves
	// normalize to the same series.
	small, err := svc.Normalize(series(1, 1.1))
	require.NoError(t, err)
	big, err := svc.Normalize(series(50000, 55000))
	require.NoError(t, err)

	assert.Equal(t, small, big)
}

func TestNormalize_EmptySeries(t *testing.T) {
	svc := newTestService()

	_, err := svc.Normalize(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestNormalize_ZeroBasePrice(t *testing.T) {
	svc := newTestService()

	_, err := svc.Normalize(series(0, 10))
	assert.ErrorIs(t, err, ErrInvalidBasePrice)
}

func TestBuildComparison_AlignsToShortestSeries(t *testing.T) {
	svc := newTestService()

	result := svc.BuildComparison(map[string][]PricePoint{
		"BTC": series(100, 101, 102, 103),
		"ETH": series(2000, 2100, 2200),
	}, 30)

	require.Len(t, result.Series, 2)
	require.Len(t, result.Axis, 3)
	for _, s := range result.Series {
		assert.Len(t, s.Points, 3)
		assert.Equal(t, 0.0, s.Points[0])
	}

	// Symbol order is deterministic; axis comes from the reference asset.
	assert.Equal(t, "BTC", result.Series[0].Symbol)
	assert.Equal(t, day(0), result.Axis[0])
}

func TestBuildComparison_SkipsMalformedSeries(t *testing.T) {
	svc := newTestService()

	result := svc.BuildComparison(map[string][]PricePoint{
		"BTC":  series(100, 110),
		"BAD":  series(0, 10),
		"NONE": nil,
	}, 30)

	require.Len(t, result.Series, 1)
	assert.Equal(t, "BTC", result.Series[0].Symbol)
	assert.Contains(t, result.Skipped, "BAD")
	assert.Contains(t, result.Skipped, "NONE")
}

func TestBuildComparison_WindowsToTimeframe(t *testing.T) {
	svc := newTestService()

	// 10 daily points, timeframe 7 days: only the trailing window is
	// normalized, so its first point becomes the base.
	prices := series(100, 101, 102, 103, 104, 105, 106, 107, 108, 109)
	result := svc.BuildComparison(map[string][]PricePoint{"BTC": prices}, 7)

	require.Len(t, result.Series, 1)
	points := result.Series[0].Points
	require.NotEmpty(t, points)
	assert.Equal(t, 0.0, points[0])
	assert.Len(t, points, 8) // cutoff is inclusive: 7 days back plus the end point
	assert.Equal(t, day(2), result.Axis[0])
}

func TestBuildComparison_PureAcrossTimeframes(t *testing.T) {
	svc := newTestService()

	input := map[string][]PricePoint{
		"BTC": series(100, 110, 121, 133.1, 146.41, 161.05, 177.16, 194.87),
	}

	first := svc.BuildComparison(input, 7)
	svc.BuildComparison(input, 90)
	again := svc.BuildComparison(input, 7)

	assert.Equal(t, first, again)
}

func TestBuildComparison_EmptyInput(t *testing.T) {
	svc := newTestService()

	result := svc.BuildComparison(nil, 30)
	assert.Empty(t, result.Series)
	assert.Empty(t, result.Axis)
}
