package model

import "time"

// Signal classifies the latest period's momentum.
type Signal string

const (
	SignalBullish Signal = "Bullish"
	SignalBearish Signal = "Bearish"
)

// ReportRow is the final per-symbol scan output.
type ReportRow struct {
	Ticker   string
	Name     string
	Group    string
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	PercentK float64
	PercentD float64
	Signal   Signal
	Buy      bool
}
