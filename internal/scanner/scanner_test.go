package scanner

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/TomMakinMPF/fifoinvestor/internal/calculator"
	"github.com/TomMakinMPF/fifoinvestor/internal/collector"
	"github.com/TomMakinMPF/fifoinvestor/internal/model"
	"github.com/TomMakinMPF/fifoinvestor/internal/strategy"
)

func monthlySeries(n int, base, band float64) []model.Candle {
	start := time.Date(2019, time.May, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		c := base * (1 + 0.2*math.Sin(float64(i)*0.35))
		candles[i] = model.Candle{
			Time:  start.AddDate(0, i, 0),
			Open:  c,
			High:  c + band,
			Low:   c - band,
			Close: c,
		}
	}
	return candles
}

func flatSeries(n int) []model.Candle {
	candles := monthlySeries(n, 10, 1)
	for i := range candles {
		candles[i].Open, candles[i].High, candles[i].Low, candles[i].Close = 10, 10, 10, 10
	}
	return candles
}

func newTestScanner(workers int) *Scanner {
	fetcher := &collector.MockFetcher{
		Candles: map[string][]model.Candle{
			"GOOD.AX":  monthlySeries(60, 50, 1.5),
			"SHORT.AX": monthlySeries(10, 50, 1.5),
			"FLAT.AX":  flatSeries(60),
			"PENNY.AX": monthlySeries(60, 0.30, 0.02),
		},
		Names: map[string]string{"GOOD.AX": "Good Company Ltd"},
	}
	filters := map[string]strategy.RowFilter{
		"asx": strategy.MinCloseFilter(0.50),
	}
	return New(fetcher, calculator.DefaultParams, filters, workers, zerolog.Nop())
}

func requestsFor(symbols ...string) []Request {
	reqs := make([]Request, len(symbols))
	for i, s := range symbols {
		reqs[i] = Request{Symbol: s, Group: "asx"}
	}
	return reqs
}

func TestScan_BatchIsolation(t *testing.T) {
	sc := newTestScanner(3)
	result := sc.Scan(context.Background(),
		requestsFor("GOOD.AX", "SHORT.AX", "FLAT.AX", "PENNY.AX", "MISSING.AX"))

	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 report row, got %d", len(result.Rows))
	}
	row := result.Rows[0]
	if row.Ticker != "GOOD.AX" || row.Name != "Good Company Ltd" || row.Group != "asx" {
		t.Errorf("unexpected row: %+v", row)
	}

	want := map[string]Reason{
		"SHORT.AX":   ReasonInsufficientHistory,
		"FLAT.AX":    ReasonInsufficientSignalHistory,
		"PENNY.AX":   ReasonPriceFloor,
		"MISSING.AX": ReasonFetchError,
	}
	if len(result.Excluded) != len(want) {
		t.Fatalf("expected %d exclusions, got %d: %+v", len(want), len(result.Excluded), result.Excluded)
	}
	for _, excl := range result.Excluded {
		if want[excl.Symbol] != excl.Reason {
			t.Errorf("%s: reason %s, want %s", excl.Symbol, excl.Reason, want[excl.Symbol])
		}
	}
}

func TestScan_DeterministicOrdering(t *testing.T) {
	sc := newTestScanner(4)
	symbols := []string{"PENNY.AX", "MISSING.AX", "GOOD.AX", "FLAT.AX", "SHORT.AX"}

	first := sc.Scan(context.Background(), requestsFor(symbols...))
	for trial := 0; trial < 5; trial++ {
		again := sc.Scan(context.Background(), requestsFor(symbols...))
		if len(again.Rows) != len(first.Rows) || len(again.Excluded) != len(first.Excluded) {
			t.Fatal("result sizes differ between identical scans")
		}
		for i := range again.Excluded {
			if again.Excluded[i] != first.Excluded[i] {
				t.Fatalf("exclusion order differs at %d: %+v vs %+v", i, again.Excluded[i], first.Excluded[i])
			}
		}
	}
}

func TestScan_SingleWorker(t *testing.T) {
	sc := newTestScanner(1)
	result := sc.Scan(context.Background(), requestsFor("GOOD.AX", "MISSING.AX"))
	if len(result.Rows) != 1 || len(result.Excluded) != 1 {
		t.Fatalf("unexpected result: %d rows, %d excluded", len(result.Rows), len(result.Excluded))
	}
}

func TestScan_CancelledContext(t *testing.T) {
	sc := newTestScanner(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := sc.Scan(ctx, requestsFor("GOOD.AX", "SHORT.AX"))
	// Cancellation stops dispatching; whatever completed is still reported.
	if len(result.Rows)+len(result.Excluded) > 2 {
		t.Fatalf("more results than requests: %+v", result)
	}
}

func TestScan_UnnamedSymbolGetsPlaceholder(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Candles: map[string][]model.Candle{"ANON.AX": monthlySeries(60, 50, 1.5)},
	}
	sc := New(fetcher, calculator.DefaultParams, nil, 2, zerolog.Nop())
	result := sc.Scan(context.Background(), requestsFor("ANON.AX"))
	if len(result.Rows) != 1 || result.Rows[0].Name != "N/A" {
		t.Fatalf("expected N/A name, got %+v", result.Rows)
	}
}
