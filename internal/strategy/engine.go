// Package strategy classifies indicator rows into buy/sell/none signals.
package strategy

import "TrendSignal/internal/model"

// Explanation lists the conditions that did not hold for a row.
type Explanation struct {
	Defined       bool
	BullishFailed []string
	BearishFailed []string
}

// ClassifyRow classifies cur using only its own fields and the RSI of prev.
// A nil prev or any undefined operand yields SignalNone. Bullish wins if both
// rule sets hold.
func ClassifyRow(cur, prev *model.IndicatorRow) model.Signal {
	if cur == nil || prev == nil {
		return model.SignalNone
	}
	o, ok := collect(cur, prev)
	if !ok {
		return model.SignalNone
	}
	if allHold(bullishRules, o) {
		return model.SignalBuy
	}
	if allHold(bearishRules, o) {
		return model.SignalSell
	}
	return model.SignalNone
}

// Classify assigns a signal to every row in one pass. The first row is always SignalNone.
func Classify(rows []model.IndicatorRow) []model.ClassifiedRow {
	out := make([]model.ClassifiedRow, len(rows))
	for i := range rows {
		var prev *model.IndicatorRow
		if i > 0 {
			prev = &rows[i-1]
		}
		out[i] = model.ClassifiedRow{
			IndicatorRow: rows[i],
			Signal:       ClassifyRow(&rows[i], prev),
		}
	}
	return out
}

// Explain reports which conditions of each rule set failed for cur.
func Explain(cur, prev *model.IndicatorRow) Explanation {
	if cur == nil || prev == nil {
		return Explanation{}
	}
	o, ok := collect(cur, prev)
	if !ok {
		return Explanation{}
	}
	return Explanation{
		Defined:       true,
		BullishFailed: failing(bullishRules, o),
		BearishFailed: failing(bearishRules, o),
	}
}
