package model

import "time"

// PriceBar represents a single trading day.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the raw daily bars of one instrument, oldest first.
type PriceSeries struct {
	Symbol    string
	Bars      []PriceBar
	Source    string
	FetchedAt time.Time
}

// Latest returns the most recent bar.
func (s *PriceSeries) Latest() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// CalendarDate drops the clock part of t, keeping the date as seen in t's location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
