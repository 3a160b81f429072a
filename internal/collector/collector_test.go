package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"TrendSignal/internal/barcache"
	"TrendSignal/internal/model"
	"TrendSignal/internal/platform/httpx"

	"github.com/pkg/errors"
)

func testClient() *httpx.Client {
	return httpx.New(httpx.Options{RequestsPerSec: 100, MaxElapsed: time.Second})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const chartJSON = `{"chart":{"result":[{"meta":{"symbol":"TSLA","exchangeTimezoneName":"America/New_York","gmtoffset":-14400},
"timestamp":[1717421400,1717507800,1717594200,1717680600,1717684200],
"indicators":{"quote":[{
"open":[10,11,null,12.5,13],
"high":[11,12,null,13.5,14],
"low":[9,10,null,12,12.5],
"close":[10.5,11.5,null,13,13.5],
"volume":[100,200,null,300,null]}]}}],"error":null}}`

func TestYahooFetcher_ParsesChart(t *testing.T) {
	var gotPath, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		fmt.Fprint(w, chartJSON)
	}))
	defer srv.Close()

	f := NewYahooFetcher(testClient())
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyBars(context.Background(), "spx", 1095)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v8/finance/chart/^GSPC" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotRange != "5y" {
		t.Errorf("expected range 5y, got %q", gotRange)
	}
	// The null bar is skipped and the two timestamps on 2024-06-06 collapse to the later one.
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d: %+v", len(bars), bars)
	}
	want := []time.Time{day(2024, 6, 3), day(2024, 6, 4), day(2024, 6, 6)}
	for i, w := range want {
		if !bars[i].Date.Equal(w) {
			t.Errorf("bar %d: date %s, want %s", i, bars[i].Date.Format("2006-01-02"), w.Format("2006-01-02"))
		}
	}
	if bars[2].Volume != 0 || bars[2].Close != 13.5 {
		t.Errorf("unexpected last bar %+v", bars[2])
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher(testClient())
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "NOPE", 30)
	if err == nil || !strings.Contains(err.Error(), "delisted") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestYahooRange(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{20, "1mo"}, {90, "3mo"}, {180, "6mo"}, {365, "1y"}, {700, "2y"}, {1095, "5y"}, {3000, "10y"}, {9000, "max"},
	}
	for _, tt := range tests {
		if got := yahooRange(tt.days); got != tt.want {
			t.Errorf("yahooRange(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestRESTFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("symbol") != "TSLA" {
			t.Errorf("unexpected symbol %q", r.URL.Query().Get("symbol"))
		}
		fmt.Fprint(w, `[{"date":"2024-06-04","open":11,"high":12,"low":10,"close":11.5,"volume":200},
			{"timestamp":1717372800,"open":10,"high":11,"low":9,"close":10.5,"volume":100}]`)
	}))
	defer srv.Close()

	bars, err := NewRESTFetcher(srv.URL, "secret", testClient()).FetchDailyBars(context.Background(), "TSLA", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || !bars[0].Date.Equal(day(2024, 6, 3)) || !bars[1].Date.Equal(day(2024, 6, 4)) {
		t.Fatalf("unexpected bars %+v", bars)
	}

	_, err = NewRESTFetcher(srv.URL, "wrong", testClient()).FetchDailyBars(context.Background(), "TSLA", 30)
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

const csvData = `Date,Open,High,Low,Close,Adj Close,Volume
2024-06-04,11,12,10,11.5,11.5,200
2024-06-03 00:00:00-04:00,10,11,9,10.5,10.5,100
2024-06-05,null,null,null,null,null,null
2024-06-06,12,13,11,12.5,12.5,
`

func TestReadCSV(t *testing.T) {
	bars, err := ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if !bars[0].Date.Equal(day(2024, 6, 3)) || bars[0].Volume != 100 {
		t.Errorf("unexpected first bar %+v", bars[0])
	}
	if bars[2].Volume != 0 {
		t.Errorf("empty volume should read as 0, got %v", bars[2].Volume)
	}

	if _, err := ReadCSV(strings.NewReader("Date,Open,High\n")); err == nil {
		t.Error("expected missing column error")
	}
}

func TestCSVFetcher_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "TSLA.csv"), []byte(csvData), 0o644); err != nil {
		t.Fatal(err)
	}
	bars, err := (&CSVFetcher{Path: dir}).FetchDailyBars(context.Background(), "tsla", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2 calendar days back from 2024-06-06 keeps 06-04 and 06-06.
	if len(bars) != 2 || !bars[0].Date.Equal(day(2024, 6, 4)) {
		t.Errorf("unexpected bars %+v", bars)
	}
}

func TestTrimToDays(t *testing.T) {
	bars := []model.PriceBar{{Date: day(2024, 1, 1)}, {Date: day(2024, 1, 5)}, {Date: day(2024, 1, 10)}}
	if got := trimToDays(bars, 5); len(got) != 2 {
		t.Errorf("expected 2 bars within 5 days, got %d", len(got))
	}
	if got := trimToDays(bars, 0); len(got) != 3 {
		t.Errorf("zero days should keep everything, got %d", len(got))
	}
}

func TestSyntheticFetcher_Deterministic(t *testing.T) {
	f := &SyntheticFetcher{Base: 50, Drift: 0.001, Noise: 0.02, Seed: 9, End: day(2024, 6, 28)}
	a, _ := f.FetchDailyBars(context.Background(), "X", 365)
	b, _ := f.FetchDailyBars(context.Background(), "X", 365)
	if len(a) < 250 || len(a) != len(b) {
		t.Fatalf("unexpected lengths %d/%d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bar %d differs between runs", i)
		}
		if wd := a[i].Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("bar %d falls on a weekend", i)
		}
	}
	if err := model.ValidateSeries(a); err != nil {
		t.Fatalf("generated series is invalid: %v", err)
	}
}

type countingFetcher struct {
	SyntheticFetcher
	calls int
}

func (c *countingFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	c.calls++
	return c.SyntheticFetcher.FetchDailyBars(ctx, symbol, days)
}

func TestCachedFetcher(t *testing.T) {
	store, err := barcache.NewSQLiteStore(filepath.Join(t.TempDir(), "bars.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	inner := &countingFetcher{SyntheticFetcher: SyntheticFetcher{Seed: 1, Noise: 0.01, End: day(2024, 6, 28)}}
	now := time.Date(2024, 6, 28, 18, 0, 0, 0, time.UTC)
	cf := NewCachedFetcher(inner, store)
	cf.Now = func() time.Time { return now }

	first, err := cf.FetchDailyBars(context.Background(), "abc", 400)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := cf.FetchDailyBars(context.Background(), "ABC", 300)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected one upstream call, got %d", inner.calls)
	}
	if len(second) >= len(first) {
		t.Errorf("cached result should be trimmed to 300 days: %d vs %d", len(second), len(first))
	}

	now = now.AddDate(0, 0, 1)
	if _, err := cf.FetchDailyBars(context.Background(), "ABC", 300); err != nil {
		t.Fatalf("third fetch: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("stale cache should refetch, got %d calls", inner.calls)
	}
}

func TestCollector_RejectsBadSeries(t *testing.T) {
	bars := []model.PriceBar{
		{Date: day(2024, 1, 2), Open: 10, High: 11, Low: 9, Close: 10, Volume: 1},
		{Date: day(2024, 1, 2), Open: 10, High: 11, Low: 9, Close: 10, Volume: 1},
	}
	_, err := NewCollector(&SyntheticFetcher{Bars: bars}, 3650).Collect(context.Background(), "x")
	if !errors.Is(err, model.ErrNonMonotonicDates) {
		t.Errorf("expected ErrNonMonotonicDates, got %v", err)
	}

	_, err = NewCollector(&SyntheticFetcher{Bars: []model.PriceBar{}}, 30).Collect(context.Background(), "x")
	if !errors.Is(err, model.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestCollector_Collect(t *testing.T) {
	series, err := NewCollector(&SyntheticFetcher{Seed: 2, Noise: 0.01, End: day(2024, 6, 28)}, 200).Collect(context.Background(), "tsla")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Symbol != "TSLA" || series.Source != "synthetic" || len(series.Bars) == 0 {
		t.Errorf("unexpected series %+v", series)
	}
}
