// Package calculator turns a daily price series into indicator rows.
// Everything here is pure: no I/O, no logging, no retained state.
package calculator

import "TrendSignal/internal/model"

const (
	SignalSpan  = 9
	RSIPeriod   = 14
	LevelWindow = 15
)

// EMA spans over close.
const (
	SpanFast     = 5
	SpanMid      = 13
	SpanSlow     = 55
	SpanTrend    = 233
	SpanMACDFast = 12
	SpanMACDSlow = 26
)

// WarmupBars is the number of bars needed before every field of the last row is defined.
const WarmupBars = SpanTrend + LevelWindow + 1

// Compute validates bars and derives every indicator field. The output has the
// same length and order as bars. The full history must be passed: slicing
// before this call changes warm-up dependent values.
func Compute(bars []model.PriceBar) ([]model.IndicatorRow, error) {
	if err := model.ValidateSeries(bars); err != nil {
		return nil, err
	}
	rows := make([]model.IndicatorRow, len(bars))
	if len(bars) == 0 {
		return rows, nil
	}

	closes := extractCloses(bars)
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}

	ema5 := EMA(closes, SpanFast)
	ema13 := EMA(closes, SpanMid)
	ema55 := EMA(closes, SpanSlow)
	ema233 := EMA(closes, SpanTrend)
	ema12 := EMA(closes, SpanMACDFast)
	ema26 := EMA(closes, SpanMACDSlow)

	macd := make([]float64, len(bars))
	for i := range macd {
		macd[i] = ema12[i] - ema26[i]
	}
	signal := EMA(macd, SignalSpan)

	rsi := RSI(closes, RSIPeriod)
	highLevel := RollingMax(highs, LevelWindow)
	lowLevel := RollingMin(lows, LevelWindow)
	slope := Diff(defined(ema233))

	for i, b := range bars {
		rows[i] = model.IndicatorRow{
			PriceBar:    b,
			EMA5:        model.Some(ema5[i]),
			EMA13:       model.Some(ema13[i]),
			EMA55:       model.Some(ema55[i]),
			EMA233:      model.Some(ema233[i]),
			EMA12:       model.Some(ema12[i]),
			EMA26:       model.Some(ema26[i]),
			MACD:        model.Some(macd[i]),
			SignalLine:  model.Some(signal[i]),
			MACDHist:    model.Some(macd[i] - signal[i]),
			RSI:         rsi[i],
			HighLevel:   highLevel[i],
			LowLevel:    lowLevel[i],
			EMA233Slope: slope[i],
			Color:       colorHint(closes, i),
		}
	}
	return rows, nil
}

func colorHint(closes []float64, i int) model.ColorHint {
	if i == 0 || closes[i]-closes[i-1] >= 0 {
		return model.ColorUp
	}
	return model.ColorDown
}
