package calculator

import "TrendSignal/internal/model"

// EMA computes the exponential moving average of values with alpha = 2/(span+1),
// seeded with the first value. Every element of the result is defined.
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		// prev + alpha*(x-prev) keeps a constant series exactly constant.
		out[i] = out[i-1] + alpha*(values[i]-out[i-1])
	}
	return out
}

// SMA computes the trailing simple mean over window values. A position is
// defined only when all window values ending there are defined.
func SMA(values []model.Float, window int) []model.Float {
	out := make([]model.Float, len(values))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			v, defined := values[j].Get()
			if !defined {
				ok = false
				break
			}
			sum += v
		}
		if ok {
			out[i] = model.Some(sum / float64(window))
		}
	}
	return out
}

// Diff returns the first difference; position 0 and any position touching an
// undefined operand stay undefined.
func Diff(values []model.Float) []model.Float {
	out := make([]model.Float, len(values))
	for i := 1; i < len(values); i++ {
		cur, ok1 := values[i].Get()
		prev, ok2 := values[i-1].Get()
		if ok1 && ok2 {
			out[i] = model.Some(cur - prev)
		}
	}
	return out
}

func defined(values []float64) []model.Float {
	out := make([]model.Float, len(values))
	for i, v := range values {
		out[i] = model.Some(v)
	}
	return out
}

func extractCloses(bars []model.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
