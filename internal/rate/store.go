package rate

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync"
	"time"

	"fxconv/internal/domain"
	"fxconv/internal/events"
	"fxconv/internal/money"
	"fxconv/internal/platform/metrics"
	"fxconv/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBase = "USD"
	cacheSource = "cache"
)

type RatesFetcher interface {
	FetchRates(ctx context.Context, base string) (domain.RateSet, error)
}

type Snapshot struct {
	Rates   domain.RateSet
	Offline bool
	Loading bool
}

// Store owns the current rate set. A set that did not come from a live fetch
// is always marked offline.
type Store struct {
	fetcher RatesFetcher
	prefs   *storage.Prefs
	bus     *events.Bus
	metrics *metrics.RateMetrics

	mu      sync.RWMutex
	current domain.RateSet
	offline bool
	loading bool
}

// Refresh fetches live rates. It reports true when the live fetch succeeded.
// When every source fails the store degrades to the persisted cache, then to
// the bundled defaults, and reports false without an error.
func (s *Store) Refresh(ctx context.Context, base string) (bool, error) {
	base = normalizeBase(base)
	s.setLoading(true)
	defer s.setLoading(false)

	set, err := s.fetcher.FetchRates(ctx, base)
	if err == nil {
		s.replace(set, false, metrics.LoadLive)
		s.persist(ctx, set)
		logrus.WithFields(logrus.Fields{"base": set.Base, "source": set.Source, "count": len(set.Rates)}).Info("exchange rates updated")
		return true, nil
	}
	if !errors.Is(err, domain.ErrRatesUnavailable) {
		return false, err
	}

	logrus.WithError(err).WithField("base", base).Warn("live rates unavailable, switching to offline data")
	if cached, ok := s.LoadRates(ctx, base); ok {
		s.replace(*cached, true, metrics.LoadCache)
		return false, nil
	}
	if lerr := s.LoadDefaults(); lerr != nil {
		return false, lerr
	}
	return false, nil
}

// Bootstrap installs the persisted cache, if any, as the initial offline set.
func (s *Store) Bootstrap(ctx context.Context, preferredBase string) bool {
	cached, ok := s.LoadRates(ctx, preferredBase)
	if !ok {
		return false
	}
	s.replace(*cached, true, metrics.LoadCache)
	return true
}

// LoadRates reads the last persisted rate set. Absent, empty or malformed
// data reads as none.
func (s *Store) LoadRates(ctx context.Context, preferredBase string) (*domain.RateSet, bool) {
	var rates map[string]decimal.Decimal
	if !s.prefs.Load(ctx, storage.KeyExchangeRates, &rates) || len(rates) == 0 {
		return nil, false
	}
	for code, r := range rates {
		if r.Sign() <= 0 {
			logrus.WithFields(logrus.Fields{"code": code, "rate": r.String()}).Warn("ignoring cached rates with non-positive value")
			return nil, false
		}
	}

	var base string
	if !s.prefs.Load(ctx, storage.KeyRatesBase, &base) || base == "" {
		base = normalizeBase(preferredBase)
	}

	var lastUpdate int64
	fetchedAt := time.Time{}
	if s.prefs.Load(ctx, storage.KeyRatesLastUpdate, &lastUpdate) && lastUpdate > 0 {
		fetchedAt = time.UnixMilli(lastUpdate)
	}

	return &domain.RateSet{Base: base, Rates: rates, FetchedAt: fetchedAt, Source: cacheSource}, true
}

func (s *Store) LoadDefaults() error {
	set, err := DefaultRates()
	if err != nil {
		logrus.WithError(err).Error("load bundled rates failed")
		return err
	}
	s.replace(set, true, metrics.LoadDefaults)
	logrus.WithFields(logrus.Fields{"base": set.Base, "count": len(set.Rates)}).Info("bundled default rates loaded")
	return nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := s.current
	cp.Rates = maps.Clone(s.current.Rates)
	return Snapshot{Rates: cp, Offline: s.offline, Loading: s.loading}
}

func (s *Store) HasRates() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.current.IsEmpty()
}

// Rate is the cross rate from -> to through the shared base.
func (s *Store) Rate(from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	s.mu.RLock()
	fromRate, okFrom := s.current.RateOf(from)
	toRate, okTo := s.current.RateOf(to)
	s.mu.RUnlock()
	if !okFrom || !okTo {
		return decimal.Zero, domain.ErrInvalidRate
	}
	return money.Divide(toRate, fromRate)
}

// UpdatedAgo is the age of the current rates. ok is false when no rates with
// a known timestamp are loaded.
func (s *Store) UpdatedAgo(now time.Time) (age time.Duration, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.FetchedAt.IsZero() {
		return 0, false
	}
	age = now.Sub(s.current.FetchedAt)
	if age < 0 {
		age = 0
	}
	return age, true
}

func (s *Store) replace(set domain.RateSet, offline bool, origin string) {
	s.mu.Lock()
	s.current = set
	s.offline = offline
	s.mu.Unlock()

	s.metrics.RecordLoad(origin, offline, len(set.Rates))
	s.bus.PublishRates(events.RatesUpdated{Base: set.Base, Offline: offline, FetchedAt: set.FetchedAt})
}

func (s *Store) persist(ctx context.Context, set domain.RateSet) {
	_ = s.prefs.Save(ctx, storage.KeyExchangeRates, set.Rates)
	_ = s.prefs.Save(ctx, storage.KeyRatesBase, set.Base)
	_ = s.prefs.Save(ctx, storage.KeyRatesLastUpdate, set.TimestampMillis())
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func normalizeBase(base string) string {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return DefaultBase
	}
	return base
}

func NewStore(fetcher RatesFetcher, prefs *storage.Prefs, bus *events.Bus, m *metrics.RateMetrics) *Store {
	if bus == nil {
		bus = events.NewBus()
	}
	if m == nil {
		m = metrics.NewRateMetrics(nil)
	}
	return &Store{fetcher: fetcher, prefs: prefs, bus: bus, metrics: m}
}
