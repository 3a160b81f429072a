// Package collector fetches daily price series from market-data providers.
package collector

import (
	"context"
	"strings"
	"time"

	"TrendSignal/internal/model"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Collector fetches and validates the full price history of a symbol.
type Collector struct {
	Fetcher     Fetcher
	HistoryDays int
	logger      zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, historyDays int) *Collector {
	return &Collector{
		Fetcher:     fetcher,
		HistoryDays: historyDays,
		logger:      log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// Collect fetches the history of symbol and rejects malformed series.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.HistoryDays)
	if err != nil {
		return nil, errors.Wrap(err, "fetch daily bars")
	}
	if len(bars) == 0 {
		return nil, errors.Wrapf(model.ErrNoData, "%s from %s", symbol, c.Fetcher.Name())
	}
	if err := model.ValidateSeries(bars); err != nil {
		return nil, errors.Wrapf(err, "%s from %s", symbol, c.Fetcher.Name())
	}

	series := &model.PriceSeries{
		Symbol:    strings.ToUpper(symbol),
		Bars:      bars,
		Source:    c.Fetcher.Name(),
		FetchedAt: time.Now(),
	}
	c.logger.Info().
		Str("symbol", series.Symbol).
		Int("bars", len(bars)).
		Time("first", bars[0].Date).
		Time("last", bars[len(bars)-1].Date).
		Msg("collected price series")
	return series, nil
}
