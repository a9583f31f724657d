package currency

import (
	"context"
	"slices"
	"sync"
	"time"

	"fxconv/internal/domain"
	"fxconv/internal/money"
	"fxconv/internal/platform/metrics"
	"fxconv/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const MaxHistory = 10

// dedupeTolerance is the absolute from-amount difference under which two
// records for the same pair count as the same query.
var dedupeTolerance = decimal.RequireFromString("0.01")

// History keeps the most recent conversions into the base currency, newest
// first.
type History struct {
	prefs   *storage.Prefs
	metrics *metrics.RateMetrics
	now     func() time.Time

	mu      sync.Mutex
	records []domain.HistoryRecord
	lastID  int64
}

func (h *History) Load(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var records []domain.HistoryRecord
	if !h.prefs.Load(ctx, storage.KeyQueryHistory, &records) {
		return
	}
	if len(records) > MaxHistory {
		records = records[:MaxHistory]
	}
	h.records = records
	for _, r := range records {
		h.lastID = max(h.lastID, r.ID)
	}
}

// AddQueryHistory records fromAmount of from expressed in base units. It does
// nothing when from is the base, the amount is the empty sentinel or from has
// no usable rate. It reports whether the history changed.
func (h *History) AddQueryHistory(ctx context.Context, from, fromAmount, base string, rates domain.RateSet) bool {
	if from == base || money.IsEmptyAmount(fromAmount) {
		return false
	}
	amount, err := money.ParseAmount(fromAmount)
	if err != nil {
		logrus.WithError(err).WithField("code", from).Warn("skip history for invalid amount")
		return false
	}
	fromRate, ok := rates.RateOf(from)
	if !ok {
		logrus.WithFields(logrus.Fields{"code": from, "base": base}).Warn("skip history, rate missing")
		return false
	}
	toAmount, err := money.Divide(amount, fromRate)
	if err != nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	rec := domain.HistoryRecord{
		FromCode:   from,
		FromAmount: fromAmount,
		ToCode:     base,
		ToAmount:   toAmount.String(),
		Timestamp:  now.UnixMilli(),
	}

	if id, found := h.removeSimilar(from, base, amount); found {
		rec.ID = id
	} else {
		rec.ID = h.nextID(now)
	}

	h.records = slices.Insert(h.records, 0, rec)
	if len(h.records) > MaxHistory {
		h.records = h.records[:MaxHistory]
	}
	_ = h.prefs.Save(ctx, storage.KeyQueryHistory, h.records)
	h.metrics.RecordHistory()
	return true
}

func (h *History) List() []domain.HistoryRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.records)
}

func (h *History) Get(id int64) (domain.HistoryRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.HistoryRecord{}, false
}

func (h *History) Clear(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	_ = h.prefs.Remove(ctx, storage.KeyQueryHistory)
}

// RestoreFromHistory makes sure both codes of record are tracked, puts the
// recorded amount on the from code and returns the pair to repropagate. It
// fails with ErrTooManyTracked, changing nothing, when the codes do not fit.
func (h *History) RestoreFromHistory(ctx context.Context, record domain.HistoryRecord, tracked *Tracked) (code, amount string, err error) {
	if _, err = tracked.AddCurrencies(ctx, MaxTracked, record.FromCode, record.ToCode); err != nil {
		return "", "", err
	}
	tracked.UpdateAmount(ctx, record.FromCode, record.FromAmount)
	return record.FromCode, record.FromAmount, nil
}

// removeSimilar drops every record of the pair whose amount is within the
// dedupe tolerance and returns the id of the most recent one.
func (h *History) removeSimilar(from, to string, amount decimal.Decimal) (id int64, found bool) {
	h.records = slices.DeleteFunc(h.records, func(r domain.HistoryRecord) bool {
		if r.FromCode != from || r.ToCode != to {
			return false
		}
		prev, err := decimal.NewFromString(r.FromAmount)
		if err != nil || !prev.Sub(amount).Abs().LessThan(dedupeTolerance) {
			return false
		}
		if !found {
			id, found = r.ID, true
		}
		return true
	})
	return id, found
}

// nextID is a millisecond timestamp, bumped when needed so ids stay unique.
func (h *History) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= h.lastID {
		id = h.lastID + 1
	}
	h.lastID = id
	return id
}

func NewHistory(prefs *storage.Prefs, m *metrics.RateMetrics) *History {
	if m == nil {
		m = metrics.NewRateMetrics(nil)
	}
	return &History{prefs: prefs, metrics: m, now: time.Now}
}
