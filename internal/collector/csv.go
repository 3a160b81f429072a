package collector

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"TrendSignal/internal/model"

	"github.com/pkg/errors"
)

// CSVFetcher reads bars from a Date,Open,High,Low,Close,Volume file such as a
// Yahoo Finance history export. If Path is a directory the file <SYMBOL>.csv
// inside it is used.
type CSVFetcher struct {
	Path string
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	path := f.Path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, strings.ToUpper(symbol)+".csv")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer file.Close()

	bars, err := ReadCSV(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return trimToDays(bars, days), nil
}

// ReadCSV parses bars from r. Rows with "null" or empty prices are skipped and
// the result is sorted by date.
func ReadCSV(r io.Reader) ([]model.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range []string{"date", "open", "high", "low", "close"} {
		if _, ok := cols[name]; !ok {
			return nil, errors.Errorf("missing column %q", name)
		}
	}

	var bars []model.PriceBar
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		date, err := parseCSVDate(rec[cols["date"]])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		prices := make([]float64, 4)
		skip := false
		for i, name := range []string{"open", "high", "low", "close"} {
			raw := strings.TrimSpace(rec[cols[name]])
			if raw == "" || strings.EqualFold(raw, "null") {
				skip = true
				break
			}
			if prices[i], err = strconv.ParseFloat(raw, 64); err != nil {
				return nil, errors.Wrapf(err, "line %d %s", line, name)
			}
		}
		if skip {
			continue
		}
		var volume float64
		if i, ok := cols["volume"]; ok {
			if raw := strings.TrimSpace(rec[i]); raw != "" && !strings.EqualFold(raw, "null") {
				if volume, err = strconv.ParseFloat(raw, 64); err != nil {
					return nil, errors.Wrapf(err, "line %d volume", line)
				}
			}
		}
		bars = append(bars, model.PriceBar{
			Date:   date,
			Open:   prices[0],
			High:   prices[1],
			Low:    prices[2],
			Close:  prices[3],
			Volume: volume,
		})
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// parseCSVDate accepts "2006-01-02" optionally followed by a time part.
func parseCSVDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 10 {
		return time.Time{}, errors.Errorf("bad date %q", raw)
	}
	t, err := time.Parse("2006-01-02", raw[:10])
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "bad date %q", raw)
	}
	return t, nil
}
