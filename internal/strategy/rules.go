package strategy

import "TrendSignal/internal/model"

// operands are the values the rule sets read from a row and its predecessor.
type operands struct {
	ema5, ema13         float64
	macd, signalLine    float64
	slope               float64
	close               float64
	lowLevel, highLevel float64
	rsi, prevRSI        float64
}

// collect gathers the operands, reporting false if any of them is undefined.
func collect(cur, prev *model.IndicatorRow) (operands, bool) {
	for _, f := range []model.Float{
		cur.EMA5, cur.EMA13, cur.MACD, cur.SignalLine, cur.EMA233Slope,
		cur.LowLevel, cur.HighLevel, cur.RSI, prev.RSI,
	} {
		if !f.Valid {
			return operands{}, false
		}
	}
	return operands{
		ema5:       cur.EMA5.V,
		ema13:      cur.EMA13.V,
		macd:       cur.MACD.V,
		signalLine: cur.SignalLine.V,
		slope:      cur.EMA233Slope.V,
		close:      cur.Close,
		lowLevel:   cur.LowLevel.V,
		highLevel:  cur.HighLevel.V,
		rsi:        cur.RSI.V,
		prevRSI:    prev.RSI.V,
	}, true
}

type condition struct {
	name  string
	holds func(o operands) bool
}

// Short-term momentum turning up while MACD is still below zero, inside a rising long-term trend.
var bullishRules = []condition{
	{"ema5 above ema13", func(o operands) bool { return o.ema5 > o.ema13 }},
	{"macd below zero", func(o operands) bool { return o.macd < 0 }},
	{"signal line below zero", func(o operands) bool { return o.signalLine < 0 }},
	{"macd above signal line", func(o operands) bool { return o.macd > o.signalLine }},
	{"ema233 rising", func(o operands) bool { return o.slope > 0 }},
	{"close above low level", func(o operands) bool { return o.close > o.lowLevel }},
	{"rsi rising", func(o operands) bool { return o.rsi > o.prevRSI }},
}

// Mirror image of bullishRules.
var bearishRules = []condition{
	{"ema5 below ema13", func(o operands) bool { return o.ema5 < o.ema13 }},
	{"macd above zero", func(o operands) bool { return o.macd > 0 }},
	{"signal line above zero", func(o operands) bool { return o.signalLine > 0 }},
	{"macd below signal line", func(o operands) bool { return o.macd < o.signalLine }},
	{"ema233 falling", func(o operands) bool { return o.slope < 0 }},
	{"close below high level", func(o operands) bool { return o.close < o.highLevel }},
	{"rsi falling", func(o operands) bool { return o.rsi < o.prevRSI }},
}

func allHold(rules []condition, o operands) bool {
	for _, r := range rules {
		if !r.holds(o) {
			return false
		}
	}
	return true
}

func failing(rules []condition, o operands) []string {
	var names []string
	for _, r := range rules {
		if !r.holds(o) {
			names = append(names, r.name)
		}
	}
	return names
}

// Bullish reports whether every bullish condition holds for cur. It is false
// when any operand is undefined.
func Bullish(cur, prev *model.IndicatorRow) bool {
	o, ok := collect(cur, prev)
	return ok && allHold(bullishRules, o)
}

// Bearish reports whether every bearish condition holds for cur. It is false
// when any operand is undefined.
func Bearish(cur, prev *model.IndicatorRow) bool {
	o, ok := collect(cur, prev)
	return ok && allHold(bearishRules, o)
}
