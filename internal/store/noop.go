package store

import (
	"time"

	"github.com/TomMakinMPF/fifoinvestor/internal/model"
)

// NoopStore is a no-op implementation used when caching is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Load(_ string) ([]model.Candle, time.Time, error) {
	return nil, time.Time{}, ErrCacheMiss
}
func (n *NoopStore) Save(_ string, _ []model.Candle) error { return nil }
func (n *NoopStore) Close() error                          { return nil }
