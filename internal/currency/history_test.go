package currency

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fxconv/internal/adapters/memory"
	"fxconv/internal/domain"
	"fxconv/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testRates() domain.RateSet {
	return domain.RateSet{
		Base: "USD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"EUR": decimal.RequireFromString("0.9"),
			"CNY": decimal.RequireFromString("7.0"),
			"JPY": decimal.RequireFromString("150"),
		},
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newHistory(t *testing.T) (*History, *storage.Prefs) {
	t.Helper()
	prefs := storage.NewPrefs(memory.NewKVStore())
	h := NewHistory(prefs, nil)
	clock := &fakeClock{t: time.UnixMilli(1700000000000)}
	h.now = clock.now
	return h, prefs
}

func TestHistory_Add_SkipsBaseSentinelAndMissingRate(t *testing.T) {
	h, _ := newHistory(t)
	ctx := context.Background()

	require.False(t, h.AddQueryHistory(ctx, "USD", "100", "USD", testRates()))
	require.False(t, h.AddQueryHistory(ctx, "EUR", "", "USD", testRates()))
	require.False(t, h.AddQueryHistory(ctx, "EUR", "0", "USD", testRates()))
	require.False(t, h.AddQueryHistory(ctx, "GBP", "10", "USD", testRates()))
	require.False(t, h.AddQueryHistory(ctx, "EUR", "abc", "USD", testRates()))
	require.Empty(t, h.List())
}

func TestHistory_Add_ComputesBaseAmount(t *testing.T) {
	h, prefs := newHistory(t)
	ctx := context.Background()

	require.True(t, h.AddQueryHistory(ctx, "EUR", "90", "USD", testRates()))

	list := h.List()
	require.Len(t, list, 1)
	rec := list[0]
	require.Equal(t, "EUR", rec.FromCode)
	require.Equal(t, "90", rec.FromAmount)
	require.Equal(t, "USD", rec.ToCode)
	require.Equal(t, "100", rec.ToAmount)
	require.Equal(t, rec.Timestamp, rec.ID)

	var persisted []domain.HistoryRecord
	require.True(t, prefs.Load(ctx, storage.KeyQueryHistory, &persisted))
	require.Equal(t, list, persisted)
}

func TestHistory_Cap_KeepsTenNewestFirst(t *testing.T) {
	h, _ := newHistory(t)
	ctx := context.Background()

	for i := 1; i <= 15; i++ {
		require.True(t, h.AddQueryHistory(ctx, "EUR", fmt.Sprintf("%d", i*10), "USD", testRates()))
	}

	list := h.List()
	require.Len(t, list, MaxHistory)
	require.Equal(t, "150", list[0].FromAmount)
	require.Equal(t, "60", list[9].FromAmount)
	for i := 1; i < len(list); i++ {
		require.Greater(t, list[i-1].Timestamp, list[i].Timestamp)
	}
}

func TestHistory_Dedupe_RefreshesAndMovesToFront(t *testing.T) {
	h, _ := newHistory(t)
	ctx := context.Background()

	require.True(t, h.AddQueryHistory(ctx, "EUR", "100", "USD", testRates()))
	require.True(t, h.AddQueryHistory(ctx, "CNY", "700", "USD", testRates()))
	firstID := h.List()[1].ID

	require.True(t, h.AddQueryHistory(ctx, "EUR", "100.005", "USD", testRates()))

	list := h.List()
	require.Len(t, list, 2)
	require.Equal(t, "EUR", list[0].FromCode)
	require.Equal(t, "100.005", list[0].FromAmount)
	require.Equal(t, firstID, list[0].ID)
	require.Greater(t, list[0].Timestamp, list[1].Timestamp)
}

func TestHistory_Dedupe_DistinctBeyondTolerance(t *testing.T) {
	h, _ := newHistory(t)
	ctx := context.Background()

	h.AddQueryHistory(ctx, "EUR", "100", "USD", testRates())
	h.AddQueryHistory(ctx, "EUR", "100.01", "USD", testRates())
	h.AddQueryHistory(ctx, "EUR", "100", "CNY", domain.RateSet{Base: "CNY", Rates: testRates().Rates})

	require.Len(t, h.List(), 3)
}

func TestHistory_Dedupe_MergesEveryRecordWithinTolerance(t *testing.T) {
	h, _ := newHistory(t)
	ctx := context.Background()

	require.True(t, h.AddQueryHistory(ctx, "EUR", "100", "USD", testRates()))
	require.True(t, h.AddQueryHistory(ctx, "EUR", "100.015", "USD", testRates()))
	require.Len(t, h.List(), 2)
	newestID := h.List()[0].ID

	// within 0.01 of both existing records
	require.True(t, h.AddQueryHistory(ctx, "EUR", "100.008", "USD", testRates()))

	list := h.List()
	require.Len(t, list, 1)
	require.Equal(t, "100.008", list[0].FromAmount)
	require.Equal(t, newestID, list[0].ID)
}

func TestHistory_IDsUniqueWithinSameMillisecond(t *testing.T) {
	h, _ := newHistory(t)
	fixed := time.UnixMilli(1700000000000)
	h.now = func() time.Time { return fixed }
	ctx := context.Background()

	h.AddQueryHistory(ctx, "EUR", "1", "USD", testRates())
	h.AddQueryHistory(ctx, "EUR", "2", "USD", testRates())

	list := h.List()
	require.NotEqual(t, list[0].ID, list[1].ID)
	require.Greater(t, list[0].ID, list[1].ID)
}

func TestHistory_Get_And_Clear(t *testing.T) {
	h, prefs := newHistory(t)
	ctx := context.Background()
	h.AddQueryHistory(ctx, "EUR", "1", "USD", testRates())
	id := h.List()[0].ID

	rec, ok := h.Get(id)
	require.True(t, ok)
	require.Equal(t, "EUR", rec.FromCode)
	_, ok = h.Get(id + 1000)
	require.False(t, ok)

	h.Clear(ctx)
	require.Empty(t, h.List())
	var persisted []domain.HistoryRecord
	require.False(t, prefs.Load(ctx, storage.KeyQueryHistory, &persisted))
}

func TestHistory_Load(t *testing.T) {
	h, prefs := newHistory(t)
	ctx := context.Background()
	h.AddQueryHistory(ctx, "EUR", "1", "USD", testRates())
	h.AddQueryHistory(ctx, "JPY", "1500", "USD", testRates())

	restored := NewHistory(prefs, nil)
	restored.Load(ctx)
	require.Equal(t, h.List(), restored.List())

	// new ids continue after the restored ones
	restored.now = func() time.Time { return time.UnixMilli(1) }
	restored.AddQueryHistory(ctx, "CNY", "7", "USD", testRates())
	require.Greater(t, restored.List()[0].ID, h.List()[0].ID)
}

func TestHistory_RestoreFromHistory(t *testing.T) {
	h, prefs := newHistory(t)
	ctx := context.Background()
	tr := NewTracked(prefs)
	require.True(t, removeCode(t, tr, "USD"))

	rec := domain.HistoryRecord{ID: 1, FromCode: "JPY", FromAmount: "1500", ToCode: "USD", ToAmount: "10"}
	code, amount, err := h.RestoreFromHistory(ctx, rec, tr)
	require.NoError(t, err)

	require.Equal(t, "JPY", code)
	require.Equal(t, "1500", amount)
	s := tr.Snapshot()
	require.Equal(t, []string{"CNY", "EUR", "JPY", "USD"}, s.Codes)
	require.Equal(t, "1500", s.Amounts["JPY"])
	require.Equal(t, "JPY", s.Active)
}

func TestHistory_RestoreFromHistory_RefusesOverCeiling(t *testing.T) {
	h, prefs := newHistory(t)
	ctx := context.Background()
	tr := NewTracked(prefs)
	for _, c := range []string{"GBP", "AUD", "CAD", "CHF", "HKD", "SGD"} {
		require.True(t, addCode(t, tr, c))
	}
	require.Len(t, tr.Snapshot().Codes, MaxTracked-1)
	before := tr.Snapshot()

	rec := domain.HistoryRecord{ID: 1, FromCode: "JPY", FromAmount: "1500", ToCode: "KRW", ToAmount: "10"}
	_, _, err := h.RestoreFromHistory(ctx, rec, tr)

	require.ErrorIs(t, err, ErrTooManyTracked)
	require.Equal(t, before, tr.Snapshot())
}
