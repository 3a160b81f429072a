package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TrendSignal/internal/analysis"
	"TrendSignal/internal/barcache"
	"TrendSignal/internal/collector"
	"TrendSignal/internal/config"
	"TrendSignal/internal/logger"
	"TrendSignal/internal/metrics"
	"TrendSignal/internal/platform/httpx"
	"TrendSignal/internal/report"
	"TrendSignal/internal/scheduler"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

type options struct {
	configPath string
	symbol     string
	source     string
	windowDays int
	csvOut     string
	logLevel   string
	watch      bool
	runOnStart bool
}

func main() {
	var opts options
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	pflag.StringVar(&opts.configPath, "config", cfgPath, "path to the YAML config file")
	pflag.StringVarP(&opts.symbol, "symbol", "s", "", "ticker to analyze")
	pflag.StringVar(&opts.source, "source", "", "price source: yahoo, rest, csv or synthetic")
	pflag.IntVarP(&opts.windowDays, "window-days", "w", 0, "calendar days of history shown in the signal table")
	pflag.StringVar(&opts.csvOut, "csv-out", "", "also write the signal table to this CSV file")
	pflag.StringVar(&opts.logLevel, "log-level", "", "trace, debug, info, warn or error")
	pflag.BoolVar(&opts.watch, "watch", false, "keep running and re-analyze on the configured cron schedule")
	pflag.BoolVar(&opts.runOnStart, "run-on-start", true, "in watch mode, run once before the first tick")
	pflag.Parse()

	if err := run(opts); err != nil {
		log.Fatal().Err(err).Msg("signals failed")
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "config validation")
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	fetcher, store, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().Str("source", fetcher.Name()).Str("symbol", cfg.DataSource.Symbol).Msg("data source ready")

	col := collector.NewCollector(fetcher, cfg.DataSource.HistoryDays)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.watch {
		return watch(ctx, cfg, col, opts.runOnStart)
	}
	return runOnce(ctx, cfg, col)
}

func applyFlags(cfg *config.Config, opts options) {
	if pflag.CommandLine.Changed("symbol") {
		cfg.DataSource.Symbol = opts.symbol
	}
	if pflag.CommandLine.Changed("source") {
		cfg.DataSource.Source = opts.source
	}
	if pflag.CommandLine.Changed("window-days") {
		cfg.Report.WindowDays = opts.windowDays
	}
	if pflag.CommandLine.Changed("csv-out") {
		cfg.Report.CSVOut = opts.csvOut
	}
	if pflag.CommandLine.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
}

func buildFetcher(cfg *config.Config) (collector.Fetcher, barcache.Store, error) {
	client := httpx.New(httpx.Options{ProxyURL: cfg.Proxy})

	var f collector.Fetcher
	switch cfg.DataSource.Source {
	case config.SourceREST:
		f = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, client)
	case config.SourceCSV:
		f = &collector.CSVFetcher{Path: cfg.DataSource.CSVPath}
	case config.SourceSynthetic:
		return &collector.SyntheticFetcher{Noise: 0.02, Cycle: 90, Seed: 1}, barcache.NewNoopStore(), nil
	default:
		f = collector.NewYahooFetcher(client)
	}

	if cfg.DataSource.Source == config.SourceCSV || !cfg.CacheEnabled() {
		return f, barcache.NewNoopStore(), nil
	}
	store, err := barcache.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite bar cache failed, fetching without cache")
		return f, barcache.NewNoopStore(), nil
	}
	return collector.NewCachedFetcher(f, store), store, nil
}

func runOnce(ctx context.Context, cfg *config.Config, col *collector.Collector) error {
	res, err := analysis.NewPipeline(col, nil).Run(ctx, cfg.DataSource.Symbol)
	if err != nil {
		return err
	}

	entries := report.SignalTable(report.Window(res.Rows, cfg.Report.WindowDays), res.Symbol)
	if err := report.WriteTable(os.Stdout, entries, cfg.Report.WindowDays); err != nil {
		return errors.Wrap(err, "write signal table")
	}
	cur, _ := res.Latest()
	log.Info().Str("symbol", res.Symbol).Msg(report.Summary(cur))

	if cfg.Report.CSVOut == "" {
		return nil
	}
	f, err := os.Create(cfg.Report.CSVOut)
	if err != nil {
		return errors.Wrap(err, "create csv output")
	}
	defer f.Close()
	if err := report.WriteCSV(f, entries); err != nil {
		return err
	}
	log.Info().Str("path", cfg.Report.CSVOut).Int("signals", len(entries)).Msg("signal table written")
	return nil
}

func watch(ctx context.Context, cfg *config.Config, col *collector.Collector, runOnStart bool) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	sched := scheduler.NewScheduler(ctx, analysis.NewPipeline(col, m), m, cfg.DataSource.Symbol, cfg.Report.WindowDays, os.Stdout)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return errors.Wrap(err, "register cron task")
	}
	sched.Start()
	defer sched.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()
	log.Info().Str("addr", cfg.Metrics.Addr).Str("cron", cfg.Schedule.Cron).Msg("watching, press Ctrl+C to stop")

	if runOnStart {
		go func() {
			if _, err := sched.RunNow(); err != nil {
				log.Error().Err(err).Msg("initial run failed")
			}
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
