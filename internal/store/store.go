package store

import (
	"errors"
	"time"

	"github.com/TomMakinMPF/fifoinvestor/internal/model"
)

// ErrCacheMiss indicates no cached series exists for a symbol.
var ErrCacheMiss = errors.New("cache miss")

// Store caches fetched candle series so repeated scans do not re-download full
// monthly histories. Only input candles are cached, never scan results.
type Store interface {
	// Load returns the cached series and when it was stored.
	// Returns ErrCacheMiss when the symbol has no cached series.
	Load(symbol string) ([]model.Candle, time.Time, error)
	Save(symbol string, candles []model.Candle) error
	Close() error
}
