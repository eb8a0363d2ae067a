package strategy

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/TomMakinMPF/fifoinvestor/internal/calculator"
	"github.com/TomMakinMPF/fifoinvestor/internal/model"
)

func monthlySeries(n int, closeAt func(i int) float64) []model.Candle {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		c := closeAt(i)
		candles[i] = model.Candle{
			Time:  start.AddDate(0, i, 0),
			Open:  c,
			High:  c + 1.5,
			Low:   c - 1.5,
			Close: c,
		}
	}
	return candles
}

func trendingCloses(i int) float64 {
	return 50 + 20*math.Sin(float64(i)*0.35) + float64(i)*0.3
}

// Downtrend with a sharp final-month rally: the last two defined pairs flip
// from Bearish to Bullish.
func crossoverCloses(i int) float64 {
	if i < 59 {
		return 100 - float64(i)*0.8 + 2.0*math.Sin(float64(i)*1.7)
	}
	return 100 - 58*0.8 + 8.0
}

func TestEvaluate_InsufficientHistory(t *testing.T) {
	for _, n := range []int{0, 10, MinHistory - 1} {
		_, err := Evaluate("TEST.AX", monthlySeries(n, trendingCloses), calculator.DefaultParams)
		if !errors.Is(err, ErrInsufficientHistory) {
			t.Errorf("%d periods: got %v, want ErrInsufficientHistory", n, err)
		}
	}
}

func TestEvaluate_FlatSeriesExcluded(t *testing.T) {
	// Every window flat: no defined indicator values at all.
	candles := monthlySeries(60, func(int) float64 { return 10 })
	for i := range candles {
		candles[i].High = 10
		candles[i].Low = 10
	}
	_, err := Evaluate("FLAT", candles, calculator.DefaultParams)
	if !errors.Is(err, ErrInsufficientSignalHistory) {
		t.Fatalf("got %v, want ErrInsufficientSignalHistory", err)
	}
}

func TestEvaluate_ReportRow(t *testing.T) {
	candles := monthlySeries(60, trendingCloses)
	row, err := Evaluate("TEST.AX", candles, calculator.DefaultParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := candles[len(candles)-1]
	if !row.Date.Equal(last.Time) {
		t.Errorf("row date %v, want last period %v", row.Date, last.Time)
	}
	if row.Open != last.Open || row.High != last.High || row.Low != last.Low || row.Close != last.Close {
		t.Error("row OHLC does not match the latest candle")
	}

	const tol = 1e-6
	if math.Abs(row.PercentK-87.93819999641613) > tol {
		t.Errorf("latest %%K = %.10f", row.PercentK)
	}
	if math.Abs(row.PercentD-77.87270613277603) > tol {
		t.Errorf("latest %%D = %.10f", row.PercentD)
	}
	if row.Signal != model.SignalBullish {
		t.Errorf("signal = %v, want Bullish", row.Signal)
	}
	if row.Buy {
		t.Error("no crossover in this series, Buy must be false")
	}
}

func TestEvaluate_BuyOnCrossover(t *testing.T) {
	row, err := Evaluate("XOVER", monthlySeries(60, crossoverCloses), calculator.DefaultParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Signal != model.SignalBullish {
		t.Fatalf("signal = %v, want Bullish", row.Signal)
	}
	if !row.Buy {
		t.Fatal("expected Buy flag on Bearish to Bullish crossover")
	}
}

func TestEvaluate_InvalidParams(t *testing.T) {
	_, err := Evaluate("TEST", monthlySeries(60, trendingCloses), calculator.Params{K: 0, KSmooth: 6, DSmooth: 3})
	if err == nil {
		t.Fatal("expected error for non-positive window")
	}
}
