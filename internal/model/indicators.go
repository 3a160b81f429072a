package model

// ColorHint is the presentational up/down tag of a bar.
type ColorHint string

const (
	ColorUp   ColorHint = "up"
	ColorDown ColorHint = "down"
)

// IndicatorRow is a PriceBar with all derived indicator fields.
// Every Float stays undefined until its warm-up window has elapsed.
type IndicatorRow struct {
	PriceBar

	EMA5   Float
	EMA13  Float
	EMA55  Float
	EMA233 Float
	EMA12  Float
	EMA26  Float

	MACD       Float
	SignalLine Float
	MACDHist   Float

	RSI Float

	HighLevel Float // rolling max of High
	LowLevel  Float // rolling min of Low

	EMA233Slope Float
	Color       ColorHint
}
