package formulas

// SparklineRange describes the value range of a sparkline series and
// whether it is flat enough to need a fixed display scale.
type SparklineRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	IsStable bool    `json:"is_stable"`
}

// stabilityThreshold is the relative range below which a series is
// considered stable (flat) for display purposes.
const stabilityThreshold = 0.01

// Range computes the min/max of a price series and its stability flag.
//
// A series is stable when (max-min)/min < 1%. A zero minimum is treated
// as unstable (full scale) so the ratio never divides by zero. An empty
// series is returned as an unstable zero range.
func Range(points []float64) SparklineRange {
	if len(points) == 0 {
		return SparklineRange{}
	}

	min, max := points[0], points[0]
	for _, p := range points[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}

	r := SparklineRange{Min: min, Max: max}
	if min != 0 {
		r.IsStable = (max-min)/min < stabilityThreshold
	}
	return r
}
