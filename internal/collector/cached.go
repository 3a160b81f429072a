package collector

import (
	"context"
	"strings"
	"time"

	"TrendSignal/internal/barcache"
	"TrendSignal/internal/model"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CachedFetcher serves bars from a barcache.Store when the entry was pulled
// today and covers the requested days, and refreshes it from Fetcher otherwise.
type CachedFetcher struct {
	Fetcher Fetcher
	Store   barcache.Store
	Now     func() time.Time
	logger  zerolog.Logger
}

// NewCachedFetcher wraps f with store.
func NewCachedFetcher(f Fetcher, store barcache.Store) *CachedFetcher {
	return &CachedFetcher{
		Fetcher: f,
		Store:   store,
		Now:     time.Now,
		logger:  log.With().Str("component", "cached_fetcher").Logger(),
	}
}

func (c *CachedFetcher) Name() string { return c.Fetcher.Name() + "+cache" }

func (c *CachedFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	key := strings.ToUpper(symbol)
	now := c.Now()

	entry, bars, err := c.Store.Load(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("symbol", key).Msg("cache load failed, fetching")
	} else if entry != nil && entry.Source == c.Fetcher.Name() && entry.Fresh(now, days) && len(bars) > 0 {
		c.logger.Debug().Str("symbol", key).Int("bars", len(bars)).Msg("cache hit")
		return trimToDays(bars, days), nil
	}

	bars, err = c.Fetcher.FetchDailyBars(ctx, symbol, days)
	if err != nil {
		return nil, errors.Wrap(err, c.Fetcher.Name())
	}
	if len(bars) > 0 {
		entry := barcache.Entry{Symbol: key, Source: c.Fetcher.Name(), Days: days, PulledAt: now}
		if err := c.Store.Save(ctx, entry, bars); err != nil {
			c.logger.Warn().Err(err).Str("symbol", key).Msg("cache save failed")
		}
	}
	return bars, nil
}
