package scheduler

import (
	"context"
	"io"

	"TrendSignal/internal/analysis"
	"TrendSignal/internal/metrics"
	"TrendSignal/internal/model"
	"TrendSignal/internal/report"
	"TrendSignal/internal/strategy"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Scheduler reruns the pipeline for one symbol on a cron spec.
type Scheduler struct {
	Cron       *cron.Cron
	Pipeline   *analysis.Pipeline
	Metrics    *metrics.Metrics
	Symbol     string
	WindowDays int
	Out        io.Writer
	Ctx        context.Context
	logger     zerolog.Logger
}

// NewScheduler creates a new Scheduler. Overlapping ticks are skipped.
func NewScheduler(ctx context.Context, p *analysis.Pipeline, m *metrics.Metrics, symbol string, windowDays int, out io.Writer) *Scheduler {
	logger := log.With().Str("component", "scheduler").Logger()
	cronLog := cron.PrintfLogger(&logger)
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds(), cron.WithLogger(cronLog), cron.WithChain(cron.SkipIfStillRunning(cronLog))),
		Pipeline:   p,
		Metrics:    m,
		Symbol:     symbol,
		WindowDays: windowDays,
		Out:        out,
		Ctx:        ctx,
		logger:     logger,
	}
}

// Register schedules the pipeline run on spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.tick); err != nil {
		return errors.Wrapf(err, "register %q", spec)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Str("symbol", s.Symbol).Msg("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow runs the pipeline once and writes the signal table of the display window.
func (s *Scheduler) RunNow() (*analysis.Result, error) {
	res, err := s.Pipeline.Run(s.Ctx, s.Symbol)
	if err != nil {
		return nil, err
	}

	entries := report.SignalTable(report.Window(res.Rows, s.WindowDays), res.Symbol)
	s.Metrics.SetWindowSignals(entries)
	if s.Out != nil {
		if err := report.WriteTable(s.Out, entries, s.WindowDays); err != nil {
			return res, errors.Wrap(err, "write signal table")
		}
	}

	cur, prev := res.Latest()
	s.logger.Info().Str("symbol", res.Symbol).Msg(report.Summary(cur))
	if cur != nil && cur.Signal != model.SignalNone {
		s.logger.Warn().Str("symbol", res.Symbol).Stringer("signal", cur.Signal).Time("date", cur.Date).Msg("signal on latest bar")
	}
	if cur != nil && prev != nil && s.logger.Debug().Enabled() {
		exp := strategy.Explain(&cur.IndicatorRow, &prev.IndicatorRow)
		s.logger.Debug().
			Bool("defined", exp.Defined).
			Strs("bullish_failed", exp.BullishFailed).
			Strs("bearish_failed", exp.BearishFailed).
			Msg("latest bar conditions")
	}
	return res, nil
}

func (s *Scheduler) tick() {
	if _, err := s.RunNow(); err != nil {
		s.logger.Error().Err(err).Str("symbol", s.Symbol).Msg("scheduled run failed")
	}
}
