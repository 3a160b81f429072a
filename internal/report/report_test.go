package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"TrendSignal/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func rowsWith(signals map[int]model.Signal, n int) []model.ClassifiedRow {
	rows := make([]model.ClassifiedRow, n)
	for i := range rows {
		rows[i].Date = day(i)
		rows[i].Open, rows[i].High, rows[i].Low, rows[i].Close = 10, 20, 10, 15
		rows[i].Volume = 1500
		rows[i].Signal = signals[i]
	}
	return rows
}

func TestWindow(t *testing.T) {
	rows := rowsWith(nil, 300)
	tests := []struct {
		name  string
		days  int
		want  int
		first time.Time
	}{
		{"inclusive cutoff", 240, 241, day(59)},
		{"all kept", 1000, 300, day(0)},
		{"zero keeps all", 0, 300, day(0)},
		{"one day back", 1, 2, day(298)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(rows, tt.days)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			if !got[0].Date.Equal(tt.first) {
				t.Errorf("first = %s, want %s", got[0].Date, tt.first)
			}
		})
	}
	if got := Window(nil, 10); len(got) != 0 {
		t.Errorf("Window(nil) = %v", got)
	}
}

func TestSignalTable(t *testing.T) {
	rows := rowsWith(map[int]model.Signal{2: model.SignalBuy, 5: model.SignalSell}, 8)
	entries := SignalTable(rows, "tsla")
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Symbol != "TSLA" || entries[0].Signal != model.SignalBuy || !entries[0].Date.Equal(day(2)) {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Signal != model.SignalSell || !entries[1].Date.Equal(day(5)) {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestLabel(t *testing.T) {
	if Label(model.SignalBuy) != "Buy" || Label(model.SignalSell) != "Sell" || Label(model.SignalNone) != "" {
		t.Error("unexpected labels")
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, nil, 240); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "no signals in the last 240 days\n" {
		t.Errorf("empty table = %q", got)
	}

	buf.Reset()
	entries := []model.SignalEntry{{Date: day(2), Symbol: "TSLA", Signal: model.SignalBuy}}
	if err := WriteTable(&buf, entries, 240); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "Date") || !strings.Contains(lines[0], "Signal Type") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Join(strings.Fields(lines[1]), " ") != "2024-01-03 TSLA Buy" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	entries := []model.SignalEntry{
		{Date: day(2), Symbol: "TSLA", Signal: model.SignalBuy},
		{Date: day(5), Symbol: "TSLA", Signal: model.SignalSell},
	}
	if err := WriteCSV(&buf, entries); err != nil {
		t.Fatal(err)
	}
	want := "date,symbol,signal\n2024-01-03,TSLA,buy\n2024-01-06,TSLA,sell\n"
	if buf.String() != want {
		t.Errorf("csv = %q, want %q", buf.String(), want)
	}
}

func TestBuildPanels(t *testing.T) {
	rows := rowsWith(map[int]model.Signal{1: model.SignalBuy, 3: model.SignalSell}, 4)
	rows[2].RSI = model.Some(55)
	p := BuildPanels(rows)

	if len(p.Dates) != 4 || len(p.Close) != 4 || len(p.MACDHist) != 4 {
		t.Fatalf("panel lengths: %d %d %d", len(p.Dates), len(p.Close), len(p.MACDHist))
	}
	if p.RSIUpper != 70 || p.RSILower != 30 {
		t.Errorf("guides = %v/%v", p.RSIUpper, p.RSILower)
	}
	if v, ok := p.RSI[2].Get(); !ok || v != 55 {
		t.Errorf("RSI[2] = %v", p.RSI[2])
	}
	if len(p.Markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(p.Markers))
	}
	if m := p.Markers[0]; m.Signal != model.SignalBuy || m.Price != 9 {
		t.Errorf("buy marker = %+v, want price 9", m)
	}
	if m := p.Markers[1]; m.Signal != model.SignalSell || math.Abs(m.Price-22) > 1e-9 {
		t.Errorf("sell marker = %+v, want price 22", m)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{9.5, "$9.50"},
		{1234.564, "$1,234.56"},
		{1234567.891, "$1,234,567.89"},
		{999.999, "$1,000.00"},
		{-42.1, "-$42.10"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatVolume(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{999, "999"},
		{3400, "3.4K"},
		{1_200_000, "1.2M"},
		{25_000_000, "25.0M"},
	}
	for _, tt := range tests {
		if got := FormatVolume(tt.in); got != tt.want {
			t.Errorf("FormatVolume(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	if Summary(nil) != "no data" {
		t.Error("nil summary")
	}
	rows := rowsWith(map[int]model.Signal{0: model.SignalSell}, 1)
	got := Summary(&rows[0])
	if !strings.Contains(got, "$15.00") || !strings.Contains(got, "1.5K") || !strings.HasSuffix(got, "| Sell") {
		t.Errorf("summary = %q", got)
	}
}
