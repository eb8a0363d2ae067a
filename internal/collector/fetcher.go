package collector

import "github.com/TomMakinMPF/fifoinvestor/internal/model"

// Fetcher defines the interface for fetching monthly market data.
type Fetcher interface {
	// FetchMonthlyCandles returns the full available monthly history for a
	// symbol in chronological order.
	FetchMonthlyCandles(symbol string) ([]model.Candle, error)
	// FetchName returns a display name for the symbol, or "N/A" when the
	// provider has none.
	FetchName(symbol string) (string, error)
	Name() string
}
