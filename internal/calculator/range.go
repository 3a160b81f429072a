package calculator

import "TrendSignal/internal/model"

// RollingMax returns the max over the trailing window values, inclusive of the
// current one. The first window-1 positions are undefined.
func RollingMax(values []float64, window int) []model.Float {
	return rolling(values, window, func(a, b float64) bool { return a > b })
}

// RollingMin returns the min over the trailing window values, inclusive of the
// current one. The first window-1 positions are undefined.
func RollingMin(values []float64, window int) []model.Float {
	return rolling(values, window, func(a, b float64) bool { return a < b })
}

func rolling(values []float64, window int, better func(a, b float64) bool) []model.Float {
	out := make([]model.Float, len(values))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		best := values[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			if better(values[j], best) {
				best = values[j]
			}
		}
		out[i] = model.Some(best)
	}
	return out
}
