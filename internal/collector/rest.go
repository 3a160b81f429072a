package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"TrendSignal/internal/model"
	"TrendSignal/internal/platform/httpx"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RESTFetcher implements Fetcher against a generic bars REST API:
// GET {BaseURL}/api/v1/bars/daily?symbol=X&limit=N returning a JSON array.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client
	logger  zerolog.Logger
}

// NewRESTFetcher creates a fetcher for baseURL with an optional bearer key.
func NewRESTFetcher(baseURL, apiKey string, client *httpx.Client) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  client,
		logger:  log.With().Str("component", "rest_fetcher").Logger(),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *RESTFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), days)
	header := http.Header{}
	if f.APIKey != "" {
		header.Set("Authorization", "Bearer "+f.APIKey)
	}
	body, err := f.Client.Get(ctx, endpoint, header)
	if err != nil {
		return nil, errors.Wrap(err, "fetch bars")
	}
	var raw []restBar
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "decode bars")
	}
	bars := make([]model.PriceBar, 0, len(raw))
	for i, rb := range raw {
		date, err := rb.date()
		if err != nil {
			return nil, errors.Wrapf(err, "bar %d", i)
		}
		bars = append(bars, model.PriceBar{
			Date:   date,
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		})
	}
	// Ensure chronological order
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	f.logger.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("fetched bars")
	return trimToDays(bars, days), nil
}

func (b restBar) date() (time.Time, error) {
	if b.Date != "" {
		t, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			return time.Time{}, errors.Wrap(err, "parse date")
		}
		return t, nil
	}
	if b.Timestamp == 0 {
		return time.Time{}, errors.New("missing date and timestamp")
	}
	return model.CalendarDate(time.Unix(b.Timestamp, 0).UTC()), nil
}
