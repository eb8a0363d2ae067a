package collector

import (
	"fmt"
	"time"

	"github.com/TomMakinMPF/fifoinvestor/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Candles map[string][]model.Candle
	Names   map[string]string
	Err     error // returned for every symbol when set
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchMonthlyCandles(symbol string) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if candles, ok := m.Candles[symbol]; ok {
		return candles, nil
	}
	return nil, fmt.Errorf("mock: no data for %s", symbol)
}

func (m *MockFetcher) FetchName(symbol string) (string, error) {
	if name, ok := m.Names[symbol]; ok {
		return name, nil
	}
	return "N/A", nil
}

// GenerateMonthlyCandles builds a synthetic drifting series ending at the most
// recent month, for development without a live data source.
func GenerateMonthlyCandles(basePrice float64, count int) []model.Candle {
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.004)
		candles[i] = model.Candle{
			Time:  monthStart(time.Now()).AddDate(0, -(count - 1 - i), 0),
			Open:  p * 0.999,
			High:  p * 1.02,
			Low:   p * 0.98,
			Close: p,
		}
	}
	return candles
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
