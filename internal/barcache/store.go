// Package barcache keeps raw fetched daily bars so repeated runs on the same
// day do not hit the feed again. Computed indicators are never stored.
package barcache

import (
	"context"
	"time"

	"TrendSignal/internal/model"
)

// Entry describes what was cached for a symbol.
type Entry struct {
	Symbol   string
	Source   string
	Days     int
	PulledAt time.Time
}

// Fresh reports whether the entry was pulled on the same calendar day as now
// and covers at least days.
func (e Entry) Fresh(now time.Time, days int) bool {
	y1, m1, d1 := e.PulledAt.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2 && e.Days >= days
}

// Store persists raw bars per symbol.
type Store interface {
	Load(ctx context.Context, symbol string) (*Entry, []model.PriceBar, error)
	Save(ctx context.Context, entry Entry, bars []model.PriceBar) error
	Close() error
}

// NoopStore never holds anything; used when no cache path is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Load(_ context.Context, _ string) (*Entry, []model.PriceBar, error) {
	return nil, nil, nil
}
func (n *NoopStore) Save(_ context.Context, _ Entry, _ []model.PriceBar) error { return nil }
func (n *NoopStore) Close() error                                              { return nil }
