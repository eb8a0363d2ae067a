package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TomMakinMPF/fifoinvestor/internal/model"
)

// Header is the fixed column order of the exported scan report.
var Header = []string{"Ticker", "Name", "Date", "Open", "High", "Low", "Close", "%K", "%D", "Signal", "Buy"}

// WriteCSV writes the report rows as comma-separated values, header first.
// Prices and oscillator values are rounded to two decimal places.
func WriteCSV(w io.Writer, rows []model.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		buy := ""
		if row.Buy {
			buy = "Yes"
		}
		record := []string{
			row.Ticker,
			row.Name,
			row.Date.Format("2006-01-02"),
			round2(row.Open),
			round2(row.High),
			round2(row.Low),
			round2(row.Close),
			round2(row.PercentK),
			round2(row.PercentD),
			string(row.Signal),
			buy,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", row.Ticker, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename returns the dated export name, e.g. fifo_scan_2026-08-29.csv.
func Filename(t time.Time) string {
	return fmt.Sprintf("fifo_scan_%s.csv", t.Format("2006-01-02"))
}

func round2(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
