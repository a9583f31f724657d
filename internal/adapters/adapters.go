package adapters

import (
	"context"
	"fxconv/internal/domain"
)

// RateSource is one upstream able to produce a full RateSet for a base.
type RateSource interface {
	Name() string
	FetchRates(ctx context.Context, base string) (domain.RateSet, error)
}

// KVStore persists opaque JSON values. Get returns domain.ErrNotFound for a
// missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
