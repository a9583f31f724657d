package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fxconv/internal/adapters"
	"fxconv/internal/domain"
	"fxconv/internal/platform/metrics"

	"github.com/sirupsen/logrus"
)

// Fetcher asks each source in order and returns the first successful
// RateSet. It never consults the cache or the bundled defaults.
type Fetcher struct {
	sources []adapters.RateSource
	metrics *metrics.RateMetrics
}

func (f *Fetcher) FetchRates(ctx context.Context, base string) (domain.RateSet, error) {
	lastErr := errors.New("no rate sources configured")
	for i, src := range f.sources {
		started := time.Now()
		set, err := src.FetchRates(ctx, base)
		f.metrics.RecordFetch(src.Name(), started, err)
		if err == nil {
			if i > 0 {
				logrus.WithFields(logrus.Fields{"source": src.Name(), "base": base}).Warn("rates served by fallback source")
			}
			return set, nil
		}
		logrus.WithError(err).WithFields(logrus.Fields{"source": src.Name(), "base": base}).Warn("rate source failed")
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	return domain.RateSet{}, fmt.Errorf("%w: %w", domain.ErrRatesUnavailable, lastErr)
}

func NewFetcher(m *metrics.RateMetrics, sources ...adapters.RateSource) *Fetcher {
	if m == nil {
		m = metrics.NewRateMetrics(nil)
	}
	return &Fetcher{sources: sources, metrics: m}
}
