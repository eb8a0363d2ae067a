package model

import "time"

// Candle represents a single monthly OHLC bar.
type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}
