package scanner

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/TomMakinMPF/fifoinvestor/internal/calculator"
	"github.com/TomMakinMPF/fifoinvestor/internal/collector"
	"github.com/TomMakinMPF/fifoinvestor/internal/model"
	"github.com/TomMakinMPF/fifoinvestor/internal/strategy"
)

// Reason explains why a symbol was excluded from the report.
type Reason string

const (
	ReasonFetchError                Reason = "fetch_error"
	ReasonInsufficientHistory       Reason = "insufficient_history"
	ReasonUndefinedIndicator        Reason = "undefined_indicator"
	ReasonInsufficientSignalHistory Reason = "insufficient_signal_history"
	ReasonPriceFloor                Reason = "price_floor"
)

// Request names one symbol to evaluate and the market group it came from.
type Request struct {
	Symbol string
	Group  string
}

// Exclusion records one symbol that produced no report row and why.
type Exclusion struct {
	Symbol string
	Group  string
	Reason Reason
}

// Result is the outcome of one batch scan.
type Result struct {
	Rows     []model.ReportRow
	Excluded []Exclusion
}

// Scanner evaluates batches of symbols. Symbol evaluations are independent;
// a failure on one symbol never aborts the batch.
type Scanner struct {
	fetcher collector.Fetcher
	params  calculator.Params
	filters map[string]strategy.RowFilter // group -> display filter
	workers int
	logger  zerolog.Logger
}

func New(fetcher collector.Fetcher, params calculator.Params, filters map[string]strategy.RowFilter, workers int, logger zerolog.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		fetcher: fetcher,
		params:  params,
		filters: filters,
		workers: workers,
		logger:  logger,
	}
}

// Scan evaluates all requested symbols on a fixed-size worker pool and
// assembles the report. Rows are sorted by ticker for deterministic output.
// Cancelling ctx stops dispatching further symbols.
func (s *Scanner) Scan(ctx context.Context, requests []Request) *Result {
	jobs := make(chan Request)
	var wg sync.WaitGroup
	var mu sync.Mutex
	result := &Result{}

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range jobs {
				row, excl := s.evaluate(req)
				mu.Lock()
				if excl != nil {
					result.Excluded = append(result.Excluded, *excl)
				} else {
					result.Rows = append(result.Rows, *row)
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, req := range requests {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- req:
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(result.Rows, func(i, j int) bool { return result.Rows[i].Ticker < result.Rows[j].Ticker })
	sort.Slice(result.Excluded, func(i, j int) bool { return result.Excluded[i].Symbol < result.Excluded[j].Symbol })
	return result
}

// evaluate runs one symbol end to end: fetch, indicator, classification,
// display filter. Returns either a row or an exclusion, never both.
func (s *Scanner) evaluate(req Request) (*model.ReportRow, *Exclusion) {
	candles, err := s.fetcher.FetchMonthlyCandles(req.Symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", req.Symbol).Msg("fetch failed")
		return nil, &Exclusion{Symbol: req.Symbol, Group: req.Group, Reason: ReasonFetchError}
	}

	row, err := strategy.Evaluate(req.Symbol, candles, s.params)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", req.Symbol).Msg("symbol excluded")
		return nil, &Exclusion{Symbol: req.Symbol, Group: req.Group, Reason: reasonFor(err)}
	}
	row.Group = req.Group

	if filter, ok := s.filters[req.Group]; ok && !filter(*row) {
		return nil, &Exclusion{Symbol: req.Symbol, Group: req.Group, Reason: ReasonPriceFloor}
	}

	if name, err := s.fetcher.FetchName(req.Symbol); err == nil {
		row.Name = name
	} else {
		row.Name = "N/A"
	}
	return row, nil
}

func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, strategy.ErrInsufficientHistory):
		return ReasonInsufficientHistory
	case errors.Is(err, strategy.ErrUndefinedIndicator):
		return ReasonUndefinedIndicator
	case errors.Is(err, strategy.ErrInsufficientSignalHistory):
		return ReasonInsufficientSignalHistory
	default:
		return ReasonFetchError
	}
}
