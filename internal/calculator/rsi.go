package calculator

import "TrendSignal/internal/model"

// RSI computes the relative strength index of closes using simple trailing
// means of gains and losses over period deltas. The first period positions are
// undefined. A window with no losses yields 100; a window with neither gains nor
// losses stays undefined.
func RSI(closes []float64, period int) []model.Float {
	gains := make([]model.Float, len(closes))
	losses := make([]model.Float, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		gains[i] = model.Some(gain)
		losses[i] = model.Some(loss)
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)

	out := make([]model.Float, len(closes))
	for i := range closes {
		g, ok1 := avgGain[i].Get()
		l, ok2 := avgLoss[i].Get()
		if !ok1 || !ok2 {
			continue
		}
		out[i] = rsiFromAverages(g, l)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) model.Float {
	if avgLoss == 0 {
		if avgGain == 0 {
			return model.Float{}
		}
		return model.Some(100.0)
	}
	rs := avgGain / avgLoss
	return model.Some(100.0 - 100.0/(1.0+rs))
}
