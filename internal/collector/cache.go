package collector

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/TomMakinMPF/fifoinvestor/internal/model"
	"github.com/TomMakinMPF/fifoinvestor/internal/store"
)

// CachedFetcher wraps a Fetcher with a candle cache. A fresh cached series is
// served without hitting the provider; cache errors fall through to the live
// fetch and never fail a symbol.
type CachedFetcher struct {
	inner  Fetcher
	cache  store.Store
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedFetcher(inner Fetcher, cache store.Store, ttl time.Duration, logger zerolog.Logger) *CachedFetcher {
	return &CachedFetcher{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (f *CachedFetcher) Name() string { return f.inner.Name() + "+cache" }

func (f *CachedFetcher) FetchMonthlyCandles(symbol string) ([]model.Candle, error) {
	candles, fetchedAt, err := f.cache.Load(symbol)
	if err == nil && time.Since(fetchedAt) < f.ttl {
		return candles, nil
	}
	if err != nil && !errors.Is(err, store.ErrCacheMiss) {
		f.logger.Warn().Err(err).Str("symbol", symbol).Msg("candle cache read failed")
	}

	candles, err = f.inner.FetchMonthlyCandles(symbol)
	if err != nil {
		return nil, err
	}
	if saveErr := f.cache.Save(symbol, candles); saveErr != nil {
		f.logger.Warn().Err(saveErr).Str("symbol", symbol).Msg("candle cache write failed")
	}
	return candles, nil
}

func (f *CachedFetcher) FetchName(symbol string) (string, error) {
	return f.inner.FetchName(symbol)
}
