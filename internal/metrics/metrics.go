// Package metrics exposes Prometheus collectors for pipeline runs.
package metrics

import (
	"net/http"
	"time"

	"TrendSignal/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec // labels: result=ok|error
	FetchDuration    prometheus.Histogram
	BarsCollected    prometheus.Gauge
	LastBarTimestamp prometheus.Gauge
	WindowSignals    *prometheus.GaugeVec // labels: signal=buy|sell
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signals_pipeline_runs_total",
			Help: "Pipeline runs by result",
		}, []string{"result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signals_fetch_duration_seconds",
			Help:    "Time spent fetching and validating the price series",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		BarsCollected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signals_bars_collected",
			Help: "Number of daily bars in the last collected series",
		}),
		LastBarTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signals_last_bar_timestamp_seconds",
			Help: "Date of the most recent bar as unix time",
		}),
		WindowSignals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "signals_window_signals",
			Help: "Signals inside the display window of the last run",
		}, []string{"signal"}),
	}
	reg.MustRegister(m.RunsTotal, m.FetchDuration, m.BarsCollected, m.LastBarTimestamp, m.WindowSignals)
	return m
}

// ObserveRun counts a finished pipeline run.
func (m *Metrics) ObserveRun(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RunsTotal.WithLabelValues(result).Inc()
}

// ObserveFetch records a fetch duration and, on success, the series shape.
func (m *Metrics) ObserveFetch(d time.Duration, series *model.PriceSeries) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
	if series == nil {
		return
	}
	m.BarsCollected.Set(float64(len(series.Bars)))
	if last, ok := series.Latest(); ok {
		m.LastBarTimestamp.Set(float64(last.Date.Unix()))
	}
}

// SetWindowSignals publishes the signal counts of the display window.
func (m *Metrics) SetWindowSignals(entries []model.SignalEntry) {
	if m == nil {
		return
	}
	var buys, sells int
	for _, e := range entries {
		switch e.Signal {
		case model.SignalBuy:
			buys++
		case model.SignalSell:
			sells++
		}
	}
	m.WindowSignals.WithLabelValues("buy").Set(float64(buys))
	m.WindowSignals.WithLabelValues("sell").Set(float64(sells))
}

// Handler serves the collectors of g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
