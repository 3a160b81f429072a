package collector

import (
	"context"
	"math"
	"math/rand"
	"time"

	"TrendSignal/internal/model"
)

// SyntheticFetcher returns deterministic generated bars for development and
// testing. When Bars is set it is returned as is.
type SyntheticFetcher struct {
	Bars  []model.PriceBar
	Base  float64 // starting close, default 100
	Drift float64 // mean daily return
	Noise float64 // daily return amplitude
	Cycle int     // period in bars of a superimposed trend cycle, 0 disables it
	Seed  int64
	End   time.Time // last bar date, default today
}

func (m *SyntheticFetcher) Name() string { return "synthetic" }

func (m *SyntheticFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.PriceBar, error) {
	if m.Bars != nil {
		return trimToDays(m.Bars, days), nil
	}
	return m.generate(days), nil
}

// generate produces weekday bars covering `days` calendar days up to End.
func (m *SyntheticFetcher) generate(days int) []model.PriceBar {
	end := m.End
	if end.IsZero() {
		end = time.Now()
	}
	end = model.CalendarDate(end)
	base := m.Base
	if base <= 0 {
		base = 100
	}
	rng := rand.New(rand.NewSource(m.Seed))

	var bars []model.PriceBar
	price := base
	for d := end.AddDate(0, 0, -days); !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		ret := m.Drift + (rng.Float64()-0.5)*2*m.Noise
		if m.Cycle > 0 {
			ret += 0.01 * math.Sin(2*math.Pi*float64(len(bars))/float64(m.Cycle))
		}
		open := price
		closePrice := price * (1 + ret)
		high := math.Max(open, closePrice) * (1 + rng.Float64()*0.005)
		low := math.Min(open, closePrice) * (1 - rng.Float64()*0.005)
		bars = append(bars, model.PriceBar{
			Date:   d,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: 1000000 * (1 + rng.Float64()),
		})
		price = closePrice
	}
	return bars
}
