package collector

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/TomMakinMPF/fifoinvestor/internal/model"
	"github.com/TomMakinMPF/fifoinvestor/internal/store"
)

type countingFetcher struct {
	MockFetcher
	calls int
}

func (c *countingFetcher) FetchMonthlyCandles(symbol string) ([]model.Candle, error) {
	c.calls++
	return c.MockFetcher.FetchMonthlyCandles(symbol)
}

type memStore struct {
	candles   map[string][]model.Candle
	fetchedAt map[string]time.Time
	loadErr   error
}

func newMemStore() *memStore {
	return &memStore{candles: map[string][]model.Candle{}, fetchedAt: map[string]time.Time{}}
}

func (m *memStore) Load(symbol string) ([]model.Candle, time.Time, error) {
	if m.loadErr != nil {
		return nil, time.Time{}, m.loadErr
	}
	candles, ok := m.candles[symbol]
	if !ok {
		return nil, time.Time{}, store.ErrCacheMiss
	}
	return candles, m.fetchedAt[symbol], nil
}

func (m *memStore) Save(symbol string, candles []model.Candle) error {
	m.candles[symbol] = candles
	m.fetchedAt[symbol] = time.Now()
	return nil
}

func (m *memStore) Close() error { return nil }

func TestCachedFetcher_ServesFreshCache(t *testing.T) {
	inner := &countingFetcher{MockFetcher: MockFetcher{
		Candles: map[string][]model.Candle{"BHP.AX": GenerateMonthlyCandles(40, 60)},
	}}
	cache := newMemStore()
	f := NewCachedFetcher(inner, cache, time.Hour, zerolog.Nop())

	for i := 0; i < 3; i++ {
		candles, err := f.FetchMonthlyCandles("BHP.AX")
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if len(candles) != 60 {
			t.Fatalf("fetch %d: got %d candles", i, len(candles))
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", inner.calls)
	}
}

func TestCachedFetcher_ExpiredCacheRefetches(t *testing.T) {
	inner := &countingFetcher{MockFetcher: MockFetcher{
		Candles: map[string][]model.Candle{"BHP.AX": GenerateMonthlyCandles(40, 60)},
	}}
	cache := newMemStore()
	f := NewCachedFetcher(inner, cache, time.Hour, zerolog.Nop())

	if _, err := f.FetchMonthlyCandles("BHP.AX"); err != nil {
		t.Fatal(err)
	}
	cache.fetchedAt["BHP.AX"] = time.Now().Add(-2 * time.Hour)
	if _, err := f.FetchMonthlyCandles("BHP.AX"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("expected refetch after TTL expiry, got %d provider calls", inner.calls)
	}
}

func TestCachedFetcher_CacheErrorFallsThrough(t *testing.T) {
	inner := &countingFetcher{MockFetcher: MockFetcher{
		Candles: map[string][]model.Candle{"BHP.AX": GenerateMonthlyCandles(40, 60)},
	}}
	cache := newMemStore()
	cache.loadErr = errors.New("disk on fire")
	f := NewCachedFetcher(inner, cache, time.Hour, zerolog.Nop())

	candles, err := f.FetchMonthlyCandles("BHP.AX")
	if err != nil {
		t.Fatalf("cache failure must not fail the fetch: %v", err)
	}
	if len(candles) != 60 || inner.calls != 1 {
		t.Fatalf("expected live fetch, got %d candles after %d calls", len(candles), inner.calls)
	}
}

func TestCachedFetcher_FetchErrorPropagates(t *testing.T) {
	inner := &countingFetcher{MockFetcher: MockFetcher{Err: errors.New("provider down")}}
	f := NewCachedFetcher(inner, store.NewNoopStore(), time.Hour, zerolog.Nop())
	if _, err := f.FetchMonthlyCandles("BHP.AX"); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
