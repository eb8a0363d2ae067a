package strategy

import (
	"errors"
	"fmt"

	"github.com/TomMakinMPF/fifoinvestor/internal/calculator"
	"github.com/TomMakinMPF/fifoinvestor/internal/model"
)

// MinHistory is the minimum number of monthly periods a series must cover
// before a symbol is evaluated at all.
const MinHistory = 50

// Recoverable per-symbol exclusion reasons. Each excludes one symbol from the
// report without affecting the rest of the batch.
var (
	ErrInsufficientHistory       = errors.New("insufficient price history")
	ErrUndefinedIndicator        = errors.New("indicator value undefined")
	ErrInsufficientSignalHistory = errors.New("fewer than two defined indicator pairs")
)

// Evaluate runs the stochastic oscillator over one symbol's monthly series and
// derives the report row for the latest period. The caller owns the series for
// the duration of the call; Evaluate never mutates it and holds no state
// between calls.
func Evaluate(symbol string, candles []model.Candle, p calculator.Params) (*model.ReportRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(candles) < MinHistory {
		return nil, fmt.Errorf("%w: %d periods, need %d", ErrInsufficientHistory, len(candles), MinHistory)
	}

	kLine, dLine := calculator.Stochastic(candles, p)
	if kLine == nil {
		return nil, fmt.Errorf("%w: %d periods below window sum %d", ErrInsufficientHistory, len(candles), p.MinPeriods())
	}

	// Crossover detection needs the last two periods where both lines are
	// defined. %D implies %K at the same index, so the %D tail suffices.
	dTail := calculator.TrailingValid(dLine, 2)
	if dTail == nil {
		return nil, ErrInsufficientSignalHistory
	}
	kTail := matchTimes(kLine, dTail)
	if kTail == nil {
		// A defined %D with undefined %K at the same period cannot happen with
		// aligned smoothing windows; treat it as an undefined-value exclusion.
		return nil, fmt.Errorf("%w: %%K undefined where %%D is defined", ErrUndefinedIndicator)
	}

	prevK, curK := kTail[0].Value, kTail[1].Value
	prevD, curD := dTail[0].Value, dTail[1].Value

	last := candles[len(candles)-1]
	row := &model.ReportRow{
		Ticker:   symbol,
		Date:     last.Time,
		Open:     last.Open,
		High:     last.High,
		Low:      last.Low,
		Close:    last.Close,
		PercentK: curK,
		PercentD: curD,
		Signal:   Classify(curK, curD),
		Buy:      Crossover(prevK, prevD, curK, curD),
	}
	return row, nil
}

// matchTimes returns the points in line whose timestamps match want, in order.
// Returns nil if any match is missing or invalid.
func matchTimes(line []calculator.Point, want []calculator.Point) []calculator.Point {
	out := make([]calculator.Point, 0, len(want))
	for _, w := range want {
		found := false
		for i := len(line) - 1; i >= 0; i-- {
			if line[i].Time.Equal(w.Time) {
				if !line[i].Valid {
					return nil
				}
				out = append(out, line[i])
				found = true
				break
			}
		}
		if !found {
			return nil
		}
	}
	return out
}
