package model

import "time"

// Signal is the per-day classification.
type Signal int8

const (
	SignalNone Signal = 0
	SignalBuy  Signal = 1
	SignalSell Signal = -1
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "buy"
	case SignalSell:
		return "sell"
	default:
		return "none"
	}
}

// ClassifiedRow is an IndicatorRow with its signal.
type ClassifiedRow struct {
	IndicatorRow
	Signal Signal
}

// SignalEntry is one line of the signal table.
type SignalEntry struct {
	Date   time.Time
	Symbol string
	Signal Signal
}
