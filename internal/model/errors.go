package model

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoData is returned when the feed delivers no bars at all.
	ErrNoData = errors.New("no price data")
	// ErrInsufficientHistory means fewer than two bars, so no row can be classified.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrInvalidBar marks a bar with broken price/volume invariants.
	ErrInvalidBar = errors.New("invalid bar")
	// ErrNonMonotonicDates marks a series not strictly ascending by date.
	ErrNonMonotonicDates = errors.New("dates not strictly ascending")
)

// BarError describes which bar failed validation. It unwraps to one of the sentinels above.
type BarError struct {
	Index  int
	Date   time.Time
	Reason string
	Err    error
}

func (e *BarError) Error() string {
	return fmt.Sprintf("%v at bar %d (%s): %s", e.Err, e.Index, e.Date.Format("2006-01-02"), e.Reason)
}

func (e *BarError) Unwrap() error { return e.Err }
