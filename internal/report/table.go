// Package report turns classified rows into the display window, the signal
// table and the chart panel data.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"TrendSignal/internal/model"

	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

// Window keeps the rows dated within days of the latest row, inclusive.
// days <= 0 keeps everything.
func Window(rows []model.ClassifiedRow, days int) []model.ClassifiedRow {
	if days <= 0 || len(rows) == 0 {
		return rows
	}
	cutoff := model.CalendarDate(rows[len(rows)-1].Date).AddDate(0, 0, -days)
	for i, r := range rows {
		if !model.CalendarDate(r.Date).Before(cutoff) {
			return rows[i:]
		}
	}
	return nil
}

// SignalTable lists the rows that carry a signal, in date order.
func SignalTable(rows []model.ClassifiedRow, symbol string) []model.SignalEntry {
	symbol = strings.ToUpper(symbol)
	var out []model.SignalEntry
	for _, r := range rows {
		if r.Signal == model.SignalNone {
			continue
		}
		out = append(out, model.SignalEntry{Date: r.Date, Symbol: symbol, Signal: r.Signal})
	}
	return out
}

// Label is the display text of a signal; SignalNone has none.
func Label(s model.Signal) string {
	switch s {
	case model.SignalBuy:
		return "Buy"
	case model.SignalSell:
		return "Sell"
	default:
		return ""
	}
}

// WriteTable prints entries as an aligned table.
func WriteTable(w io.Writer, entries []model.SignalEntry, windowDays int) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "no signals in the last %d days\n", windowDays)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Date\tStock\tSignal Type")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Date.Format(dateLayout), e.Symbol, Label(e.Signal))
	}
	return tw.Flush()
}

// WriteCSV writes entries with a header row.
func WriteCSV(w io.Writer, entries []model.SignalEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "symbol", "signal"}); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Date.Format(dateLayout), e.Symbol, e.Signal.String()}); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// Summary is a one-line description of the latest row.
func Summary(row *model.ClassifiedRow) string {
	if row == nil {
		return "no data"
	}
	s := fmt.Sprintf("%s close %s vol %s RSI %s",
		row.Date.Format(dateLayout), FormatPrice(row.Close), FormatVolume(row.Volume), row.RSI)
	if l := Label(row.Signal); l != "" {
		s += " | " + l
	}
	return s
}
