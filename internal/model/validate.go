package model

import (
	"math"

	"github.com/pkg/errors"
)

// ValidateBar checks the price and volume invariants of a single bar.
func ValidateBar(b PriceBar) error {
	for _, p := range []struct {
		name string
		v    float64
	}{{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close}} {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return errors.Errorf("%s is not finite", p.name)
		}
		if p.v <= 0 {
			return errors.Errorf("%s %.4f is not positive", p.name, p.v)
		}
	}
	if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) {
		return errors.New("volume is not finite")
	}
	if b.Volume < 0 {
		return errors.Errorf("volume %.0f is negative", b.Volume)
	}
	if b.Low > b.High {
		return errors.Errorf("low %.4f above high %.4f", b.Low, b.High)
	}
	if b.Open < b.Low || b.Open > b.High {
		return errors.Errorf("open %.4f outside [%.4f, %.4f]", b.Open, b.Low, b.High)
	}
	if b.Close < b.Low || b.Close > b.High {
		return errors.Errorf("close %.4f outside [%.4f, %.4f]", b.Close, b.Low, b.High)
	}
	return nil
}

// ValidateSeries rejects malformed bars and dates that are not strictly ascending.
// Dates are compared as calendar dates.
func ValidateSeries(bars []PriceBar) error {
	for i, b := range bars {
		if err := ValidateBar(b); err != nil {
			return &BarError{Index: i, Date: b.Date, Reason: err.Error(), Err: ErrInvalidBar}
		}
		if i == 0 {
			continue
		}
		prev, cur := CalendarDate(bars[i-1].Date), CalendarDate(b.Date)
		if !cur.After(prev) {
			reason := "date before previous bar"
			if cur.Equal(prev) {
				reason = "duplicate date"
			}
			return &BarError{Index: i, Date: b.Date, Reason: reason, Err: ErrNonMonotonicDates}
		}
	}
	return nil
}
