package model

import "strconv"

// Float is a derived value that stays undefined until its warm-up window has elapsed.
// The zero value is undefined.
type Float struct {
	V     float64
	Valid bool
}

// Some returns a defined Float.
func Some(v float64) Float {
	return Float{V: v, Valid: true}
}

// Get returns the value and whether it is defined.
func (f Float) Get() (float64, bool) {
	return f.V, f.Valid
}

func (f Float) String() string {
	if !f.Valid {
		return "-"
	}
	return strconv.FormatFloat(f.V, 'f', 4, 64)
}
