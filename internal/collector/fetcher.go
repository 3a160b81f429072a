package collector

import (
	"context"

	"TrendSignal/internal/model"
)

// Fetcher is a source of daily bars.
//
// FetchDailyBars returns the bars of the last `days` calendar days ending at the
// most recent available bar, oldest first.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Name() string
}

// trimToDays keeps the bars dated within `days` calendar days of the last bar.
func trimToDays(bars []model.PriceBar, days int) []model.PriceBar {
	if len(bars) == 0 || days <= 0 {
		return bars
	}
	cutoff := model.CalendarDate(bars[len(bars)-1].Date).AddDate(0, 0, -days)
	i := 0
	for i < len(bars) && model.CalendarDate(bars[i].Date).Before(cutoff) {
		i++
	}
	return bars[i:]
}
