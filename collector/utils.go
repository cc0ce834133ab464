package collector

import (
	"math"
	"time"
)

var now = time.Now

// clampPercent keeps OS-reported percentages inside [0,100].
// NaN becomes 0.
func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// nonNegative drops negative or NaN values, which some platforms
// report for short-lived processes.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
