// Package analysis runs the fetch, indicator and classification stages for
// one instrument.
package analysis

import (
	"context"
	"strings"
	"time"

	"TrendSignal/internal/calculator"
	"TrendSignal/internal/metrics"
	"TrendSignal/internal/model"
	"TrendSignal/internal/strategy"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Source yields a validated price series for a symbol.
type Source interface {
	Collect(ctx context.Context, symbol string) (*model.PriceSeries, error)
}

// Result is the classified table of one run.
type Result struct {
	Symbol   string
	Source   string
	Rows     []model.ClassifiedRow
	Warnings []error
}

// Short reports whether the series is shorter than the slowest indicator's
// warm-up, in which case most rows carry no signal.
func (r *Result) Short() bool {
	return len(r.Rows) < calculator.WarmupBars
}

// Latest returns the most recent row and the one before it; either may be nil.
func (r *Result) Latest() (cur, prev *model.ClassifiedRow) {
	n := len(r.Rows)
	if n > 0 {
		cur = &r.Rows[n-1]
	}
	if n > 1 {
		prev = &r.Rows[n-2]
	}
	return cur, prev
}

// Analyze computes indicators and signals over bars. Zero bars is ErrNoData.
func Analyze(symbol string, bars []model.PriceBar) (*Result, error) {
	if len(bars) == 0 {
		return nil, errors.Wrap(model.ErrNoData, symbol)
	}
	rows, err := calculator.Compute(bars)
	if err != nil {
		return nil, errors.Wrap(err, "compute indicators")
	}

	res := &Result{
		Symbol: strings.ToUpper(symbol),
		Rows:   strategy.Classify(rows),
	}
	if len(bars) < 2 {
		res.Warnings = append(res.Warnings,
			errors.Wrap(model.ErrInsufficientHistory, "single bar, no signal can be derived"))
	} else if res.Short() {
		res.Warnings = append(res.Warnings,
			errors.Wrapf(model.ErrInsufficientHistory, "%d bars, slowest average needs %d", len(bars), calculator.WarmupBars))
	}
	return res, nil
}

// Pipeline collects a series from Source and analyzes it.
type Pipeline struct {
	Source  Source
	Metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewPipeline creates a new Pipeline. m may be nil.
func NewPipeline(src Source, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		Source:  src,
		Metrics: m,
		logger:  log.With().Str("component", "pipeline").Logger(),
	}
}

// Run fetches the history of symbol and returns its classified rows.
func (p *Pipeline) Run(ctx context.Context, symbol string) (res *Result, err error) {
	defer func() { p.Metrics.ObserveRun(err) }()

	start := time.Now()
	series, err := p.Source.Collect(ctx, symbol)
	p.Metrics.ObserveFetch(time.Since(start), series)
	if err != nil {
		return nil, errors.Wrapf(err, "collect %s", symbol)
	}

	res, err = Analyze(series.Symbol, series.Bars)
	if err != nil {
		return nil, err
	}
	res.Source = series.Source
	for _, w := range res.Warnings {
		p.logger.Warn().Str("symbol", res.Symbol).Err(w).Msg("limited history")
	}

	var buys, sells int
	for _, r := range res.Rows {
		switch r.Signal {
		case model.SignalBuy:
			buys++
		case model.SignalSell:
			sells++
		}
	}
	p.logger.Info().
		Str("symbol", res.Symbol).
		Int("rows", len(res.Rows)).
		Int("buy", buys).
		Int("sell", sells).
		Dur("elapsed", time.Since(start)).
		Msg("analysis complete")
	return res, nil
}
