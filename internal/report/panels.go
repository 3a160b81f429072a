package report

import (
	"time"

	"TrendSignal/internal/model"
)

// Marker offsets and RSI guide lines of the chart.
const (
	BuyMarkerFactor  = 0.9
	SellMarkerFactor = 1.1
	RSIOverbought    = 70.0
	RSIOversold      = 30.0
)

// Marker places a signal on the price panel.
type Marker struct {
	Date   time.Time
	Price  float64
	Signal model.Signal
}

// Panels is the data behind the four stacked chart panels: price with
// moving averages and markers, volume, RSI and MACD. Rendering is left to
// the consumer.
type Panels struct {
	Dates []time.Time

	Open, High, Low, Close     []float64
	EMA5, EMA13, EMA55, EMA233 []model.Float
	Markers                    []Marker

	Volume      []float64
	VolumeColor []model.ColorHint

	RSI                []model.Float
	RSIUpper, RSILower float64

	MACD, SignalLine, MACDHist []model.Float
}

// BuildPanels lays out rows for charting. Buy markers sit below the low and
// sell markers above the high.
func BuildPanels(rows []model.ClassifiedRow) *Panels {
	n := len(rows)
	p := &Panels{
		Dates:       make([]time.Time, n),
		Open:        make([]float64, n),
		High:        make([]float64, n),
		Low:         make([]float64, n),
		Close:       make([]float64, n),
		EMA5:        make([]model.Float, n),
		EMA13:       make([]model.Float, n),
		EMA55:       make([]model.Float, n),
		EMA233:      make([]model.Float, n),
		Volume:      make([]float64, n),
		VolumeColor: make([]model.ColorHint, n),
		RSI:         make([]model.Float, n),
		RSIUpper:    RSIOverbought,
		RSILower:    RSIOversold,
		MACD:        make([]model.Float, n),
		SignalLine:  make([]model.Float, n),
		MACDHist:    make([]model.Float, n),
	}
	for i, r := range rows {
		p.Dates[i] = r.Date
		p.Open[i], p.High[i], p.Low[i], p.Close[i] = r.Open, r.High, r.Low, r.Close
		p.EMA5[i], p.EMA13[i], p.EMA55[i], p.EMA233[i] = r.EMA5, r.EMA13, r.EMA55, r.EMA233
		p.Volume[i] = r.Volume
		p.VolumeColor[i] = r.Color
		p.RSI[i] = r.RSI
		p.MACD[i], p.SignalLine[i], p.MACDHist[i] = r.MACD, r.SignalLine, r.MACDHist

		switch r.Signal {
		case model.SignalBuy:
			p.Markers = append(p.Markers, Marker{Date: r.Date, Price: r.Low * BuyMarkerFactor, Signal: r.Signal})
		case model.SignalSell:
			p.Markers = append(p.Markers, Marker{Date: r.Date, Price: r.High * SellMarkerFactor, Signal: r.Signal})
		}
	}
	return p
}
