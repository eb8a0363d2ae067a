package calculator

import (
	"errors"
	"math"
	"time"

	"github.com/TomMakinMPF/fifoinvestor/internal/model"
)

// Params holds the stochastic oscillator window sizes.
type Params struct {
	K       int // raw lookback window
	KSmooth int // %K smoothing window
	DSmooth int // %D smoothing window
}

// DefaultParams matches the TradingView-style stochastic (14, 6, 3) on monthly bars.
var DefaultParams = Params{K: 14, KSmooth: 6, DSmooth: 3}

// Validate checks that all window sizes are positive.
func (p Params) Validate() error {
	if p.K <= 0 || p.KSmooth <= 0 || p.DSmooth <= 0 {
		return errors.New("stochastic windows must be positive")
	}
	return nil
}

// MinPeriods returns the minimum series length that yields any defined output.
func (p Params) MinPeriods() int {
	return p.K + p.KSmooth + p.DSmooth
}

// Point is one oscillator value aligned to a candle. Valid is false for leading
// periods without enough history and for flat-range windows where the value has
// no definition.
type Point struct {
	Time  time.Time
	Value float64
	Valid bool
}

// Stochastic computes the smoothed %K and %D lines for a time-ordered candle
// series. Both result slices have the same length as the input, entry i
// describing candles[i]; leading entries are invalid. A series shorter than
// p.MinPeriods() yields nil, nil.
//
// A flat raw window (highest high equals lowest low) produces an invalid raw
// value rather than a division by zero, and invalidity propagates through both
// smoothing stages: a smoothed value is valid only when every input in its
// window is valid.
func Stochastic(candles []model.Candle, p Params) (k, d []Point) {
	if p.Validate() != nil {
		return nil, nil
	}
	n := len(candles)
	if n < p.MinPeriods() {
		return nil, nil
	}

	raw := make([]Point, n)
	for i := range candles {
		raw[i].Time = candles[i].Time
		if i < p.K-1 {
			continue
		}
		hh := math.Inf(-1)
		ll := math.Inf(1)
		for j := i - p.K + 1; j <= i; j++ {
			if candles[j].High > hh {
				hh = candles[j].High
			}
			if candles[j].Low < ll {
				ll = candles[j].Low
			}
		}
		if hh == ll {
			continue // flat range, %K has no value here
		}
		raw[i].Value = 100 * (candles[i].Close - ll) / (hh - ll)
		raw[i].Valid = true
	}

	k = rollingMean(raw, p.KSmooth)
	d = rollingMean(k, p.DSmooth)
	return k, d
}

// rollingMean computes a simple moving average over points, keeping time
// alignment. An output is valid only when all window inputs are valid.
func rollingMean(points []Point, window int) []Point {
	out := make([]Point, len(points))
	for i := range points {
		out[i].Time = points[i].Time
		if i < window-1 {
			continue
		}
		sum := 0.0
		valid := true
		for j := i - window + 1; j <= i; j++ {
			if !points[j].Valid {
				valid = false
				break
			}
			sum += points[j].Value
		}
		if !valid {
			continue
		}
		out[i].Value = sum / float64(window)
		out[i].Valid = true
	}
	return out
}

// TrailingValid returns the last n valid points in chronological order, or nil
// if fewer than n exist.
func TrailingValid(points []Point, n int) []Point {
	tail := make([]Point, 0, n)
	for i := len(points) - 1; i >= 0 && len(tail) < n; i-- {
		if points[i].Valid {
			tail = append(tail, points[i])
		}
	}
	if len(tail) < n {
		return nil
	}
	for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
		tail[i], tail[j] = tail[j], tail[i]
	}
	return tail
}
