package converter

import (
	"context"
	"errors"
	"sync"
	"time"

	"fxconv/internal/currency"
	"fxconv/internal/domain"
	"fxconv/internal/events"
	"fxconv/internal/i18n"
	"fxconv/internal/money"
	"fxconv/internal/rate"

	"github.com/sirupsen/logrus"
)

var ErrNotTracked = errors.New("currency is not tracked")

type RatesView interface {
	Snapshot() rate.Snapshot
	UpdatedAgo(now time.Time) (time.Duration, bool)
}

type Row struct {
	Code      string `json:"code"`
	Symbol    string `json:"symbol"`
	Flag      string `json:"flag"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Raw       string `json:"raw"`
	Display   string `json:"display"`
	Short     string `json:"short"`
	Active    bool   `json:"active"`
	LastInput bool   `json:"lastInput"`
}

type Board struct {
	Base       string `json:"base"`
	Offline    bool   `json:"offline"`
	Loading    bool   `json:"loading"`
	UpdatedAt  int64  `json:"updatedAt,omitempty"`
	UpdatedAgo string `json:"updatedAgo"`
	Rows       []Row  `json:"rows"`
}

// Service keeps every tracked amount in sync with the one the user typed.
type Service struct {
	rates      RatesView
	tracked    *currency.Tracked
	history    *currency.History
	catalog    *currency.Catalog
	translator *i18n.Translator
	now        func() time.Time

	mu sync.Mutex
}

// SetAmount records text as typed into code and recomputes every other
// tracked amount. A non-empty edit of a non-base currency is added to the
// query history.
func (s *Service) SetAmount(ctx context.Context, code, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setAmountLocked(ctx, code, text)
}

func (s *Service) setAmountLocked(ctx context.Context, code, text string) error {
	if !s.tracked.UpdateAmount(ctx, code, text) {
		return ErrNotTracked
	}
	snap := s.rates.Snapshot()
	s.propagate(ctx, code, text, snap.Rates)

	if !money.IsEmptyAmount(text) && code != snap.Rates.Base {
		s.history.AddQueryHistory(ctx, code, text, snap.Rates.Base, snap.Rates)
	}
	return nil
}

// Recalculate repropagates from the active currency, or from the last input
// currency when nothing is active, after the rates changed.
func (s *Service) Recalculate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tracked.Snapshot()
	source := t.Active
	if source == "" {
		source = t.LastInput
	}
	if source == "" || money.IsEmptyAmount(t.Amounts[source]) {
		return
	}
	s.propagate(ctx, source, t.Amounts[source], s.rates.Snapshot().Rates)
	logrus.WithField("source", source).Debug("amounts recalculated")
}

// Restore brings a history record back onto the board. It fails with
// currency.ErrTooManyTracked when the record's codes do not fit.
func (s *Service) Restore(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.history.Get(id)
	if !ok {
		return domain.ErrNotFound
	}
	code, amount, err := s.history.RestoreFromHistory(ctx, rec, s.tracked)
	if err != nil {
		return err
	}
	return s.setAmountLocked(ctx, code, amount)
}

func (s *Service) ClearAmounts(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked.ClearAllAmounts(ctx)
}

// Board renders the tracked rows in order using the given display settings.
func (s *Service) Board(settings domain.Settings) Board {
	t := s.tracked.Snapshot()
	snap := s.rates.Snapshot()
	age, ok := s.rates.UpdatedAgo(s.now())

	b := Board{
		Base:       snap.Rates.Base,
		Offline:    snap.Offline,
		Loading:    snap.Loading,
		UpdatedAgo: s.translator.RelativeTime(settings.Locale, age, ok),
		Rows:       make([]Row, 0, len(t.Codes)),
	}
	if !snap.Rates.FetchedAt.IsZero() {
		b.UpdatedAt = snap.Rates.TimestampMillis()
	}

	for _, code := range t.Codes {
		amount := t.Amounts[code]
		row := Row{
			Code:      code,
			Amount:    amount,
			Raw:       money.FormatNumber(amount, settings.ThousandSeparator),
			Display:   money.FormatAmount(amount, settings.DecimalPlaces, settings.ThousandSeparator),
			Short:     money.Abbreviate(amount, settings.Locale),
			Active:    code == t.Active,
			LastInput: code == t.LastInput,
		}
		if cur, found := s.catalog.ByCode(code); found {
			row.Symbol = cur.Symbol
			row.Flag = cur.Flag
			row.Name = i18n.CurrencyName(cur, settings.Locale)
		}
		b.Rows = append(b.Rows, row)
	}
	return b
}

// HandleRatesUpdated is subscribed to the rates event bus.
func (s *Service) HandleRatesUpdated(e events.RatesUpdated) {
	logrus.WithFields(logrus.Fields{"base": e.Base, "offline": e.Offline}).Debug("rates changed, recalculating")
	s.Recalculate(context.Background())
}

func (s *Service) propagate(ctx context.Context, source, text string, rates domain.RateSet) {
	t := s.tracked.Snapshot()
	targets := make([]string, 0, len(t.Codes))
	for _, c := range t.Codes {
		if c != source {
			targets = append(targets, c)
		}
	}
	s.tracked.SetConverted(ctx, BatchConvert(text, source, targets, rates))
}

func NewService(
	rates RatesView,
	tracked *currency.Tracked,
	history *currency.History,
	catalog *currency.Catalog,
	translator *i18n.Translator,
) *Service {
	return &Service{
		rates:      rates,
		tracked:    tracked,
		history:    history,
		catalog:    catalog,
		translator: translator,
		now:        time.Now,
	}
}
