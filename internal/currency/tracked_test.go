package currency

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"fxconv/internal/adapters/memory"
	"fxconv/internal/storage"

	"github.com/stretchr/testify/require"
)

func newTracked(t *testing.T) (*Tracked, *storage.Prefs) {
	t.Helper()
	prefs := storage.NewPrefs(memory.NewKVStore())
	return NewTracked(prefs), prefs
}

func addCode(t *testing.T, tr *Tracked, code string) bool {
	t.Helper()
	added, err := tr.AddCurrencies(context.Background(), MaxTracked, code)
	require.NoError(t, err)
	return added
}

func removeCode(t *testing.T, tr *Tracked, code string) bool {
	t.Helper()
	removed, err := tr.RemoveCurrencyKeeping(context.Background(), code, 0)
	require.NoError(t, err)
	return removed
}

// every tracked code has exactly one amount entry and vice versa
func requireConsistent(t *testing.T, s TrackedSnapshot) {
	t.Helper()
	require.Len(t, s.Amounts, len(s.Codes))
	for _, c := range s.Codes {
		_, ok := s.Amounts[c]
		require.True(t, ok, "missing amount for %s", c)
	}
	if s.Active != "" {
		require.Contains(t, s.Codes, s.Active)
	}
}

func TestTracked_Defaults(t *testing.T) {
	tr, _ := newTracked(t)
	s := tr.Snapshot()
	require.Equal(t, []string{"CNY", "USD", "EUR"}, s.Codes)
	require.Equal(t, map[string]string{"CNY": "", "USD": "", "EUR": ""}, s.Amounts)
	require.Empty(t, s.Active)
}

func TestTracked_AddCurrency(t *testing.T) {
	tr, prefs := newTracked(t)
	ctx := context.Background()

	require.True(t, addCode(t, tr, "JPY"))
	require.False(t, addCode(t, tr, "JPY"))

	s := tr.Snapshot()
	require.Equal(t, []string{"CNY", "USD", "EUR", "JPY"}, s.Codes)
	requireConsistent(t, s)

	var persisted []string
	require.True(t, prefs.Load(ctx, storage.KeySelectedCurrencies, &persisted))
	require.Equal(t, s.Codes, persisted)
}

func TestTracked_RemoveCurrency_ClearsActive(t *testing.T) {
	tr, _ := newTracked(t)
	ctx := context.Background()

	require.True(t, tr.UpdateAmount(ctx, "USD", "5"))
	require.True(t, removeCode(t, tr, "USD"))
	require.False(t, removeCode(t, tr, "USD"))

	s := tr.Snapshot()
	require.Equal(t, []string{"CNY", "EUR"}, s.Codes)
	require.Empty(t, s.Active)
	require.Empty(t, s.LastInput)
	requireConsistent(t, s)
}

func TestTracked_RemoveCurrency_NoFloor(t *testing.T) {
	tr, _ := newTracked(t)

	require.True(t, removeCode(t, tr, "CNY"))
	require.True(t, removeCode(t, tr, "USD"))
	require.True(t, removeCode(t, tr, "EUR"))
	require.Empty(t, tr.Snapshot().Codes)
	requireConsistent(t, tr.Snapshot())
}

func TestTracked_UpdateAmount(t *testing.T) {
	tr, prefs := newTracked(t)
	ctx := context.Background()

	require.True(t, tr.UpdateAmount(ctx, "EUR", "100"))
	s := tr.Snapshot()
	require.Equal(t, "EUR", s.Active)
	require.Equal(t, "EUR", s.LastInput)
	require.Equal(t, "100", s.Amounts["EUR"])

	var last string
	require.True(t, prefs.Load(ctx, storage.KeyLastInputCurrency, &last))
	require.Equal(t, "EUR", last)

	// sentinel text moves active but not last input
	require.True(t, tr.UpdateAmount(ctx, "USD", "0."))
	s = tr.Snapshot()
	require.Equal(t, "USD", s.Active)
	require.Equal(t, "EUR", s.LastInput)

	require.False(t, tr.UpdateAmount(ctx, "GBP", "1"))
	requireConsistent(t, tr.Snapshot())
}

func TestTracked_SetConverted_KeepsActive(t *testing.T) {
	tr, _ := newTracked(t)
	ctx := context.Background()

	tr.UpdateAmount(ctx, "EUR", "100")
	tr.SetConverted(ctx, map[string]string{"CNY": "777.78", "USD": "111.11", "GBP": "1"})

	s := tr.Snapshot()
	require.Equal(t, "EUR", s.Active)
	require.Equal(t, "777.78", s.Amounts["CNY"])
	require.NotContains(t, s.Amounts, "GBP")
	requireConsistent(t, s)
}

func TestTracked_ClearAllAmounts(t *testing.T) {
	tr, _ := newTracked(t)
	ctx := context.Background()
	tr.UpdateAmount(ctx, "EUR", "100")
	tr.SetConverted(ctx, map[string]string{"CNY": "777.78"})

	tr.ClearAllAmounts(ctx)

	s := tr.Snapshot()
	require.Empty(t, s.Active)
	for _, v := range s.Amounts {
		require.Empty(t, v)
	}
	requireConsistent(t, s)
}

func TestTracked_Load_RoundTrip(t *testing.T) {
	tr, prefs := newTracked(t)
	ctx := context.Background()
	addCode(t, tr, "JPY")
	tr.UpdateAmount(ctx, "JPY", "1500")

	restored := NewTracked(prefs)
	restored.Load(ctx)

	s := restored.Snapshot()
	require.Equal(t, []string{"CNY", "USD", "EUR", "JPY"}, s.Codes)
	require.Equal(t, "1500", s.Amounts["JPY"])
	require.Equal(t, "JPY", s.LastInput)
	require.Empty(t, s.Active)
}

func TestTracked_Load_ReconcilesAmounts(t *testing.T) {
	kv := memory.NewKVStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, storage.KeySelectedCurrencies, []byte(`["GBP","GBP","JPY",""]`)))
	require.NoError(t, kv.Set(ctx, storage.KeyCurrencyAmounts, []byte(`{"GBP":"3","CHF":"9"}`)))
	require.NoError(t, kv.Set(ctx, storage.KeyLastInputCurrency, []byte(`"CHF"`)))

	tr := NewTracked(storage.NewPrefs(kv))
	tr.Load(ctx)

	s := tr.Snapshot()
	require.Equal(t, []string{"GBP", "JPY"}, s.Codes)
	require.Equal(t, map[string]string{"GBP": "3", "JPY": ""}, s.Amounts)
	require.Empty(t, s.LastInput)
}

func TestTracked_Load_MalformedKeepsDefaults(t *testing.T) {
	kv := memory.NewKVStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, storage.KeySelectedCurrencies, []byte(`{"bad":true}`)))
	require.NoError(t, kv.Set(ctx, storage.KeyCurrencyAmounts, []byte(`[1,2]`)))

	tr := NewTracked(storage.NewPrefs(kv))
	tr.Load(ctx)

	s := tr.Snapshot()
	require.Equal(t, DefaultTracked, s.Codes)
	requireConsistent(t, s)
}

func fillTracked(t *testing.T, tr *Tracked, n int) {
	t.Helper()
	for i := 0; len(tr.Snapshot().Codes) < n; i++ {
		require.True(t, addCode(t, tr, fmt.Sprintf("X%02d", i)))
	}
}

func TestTracked_AddCurrencies(t *testing.T) {
	tr, _ := newTracked(t)
	ctx := context.Background()

	added, err := tr.AddCurrencies(ctx, MaxTracked, "JPY", "USD", "JPY", "GBP")
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, []string{"CNY", "USD", "EUR", "JPY", "GBP"}, tr.Snapshot().Codes)

	added, err = tr.AddCurrencies(ctx, MaxTracked, "USD")
	require.NoError(t, err)
	require.False(t, added)
	requireConsistent(t, tr.Snapshot())
}

func TestTracked_AddCurrencies_AllOrNothingAtCeiling(t *testing.T) {
	tr, _ := newTracked(t)
	ctx := context.Background()
	fillTracked(t, tr, MaxTracked-1)
	before := tr.Snapshot()

	added, err := tr.AddCurrencies(ctx, MaxTracked, "JPY", "GBP")
	require.ErrorIs(t, err, ErrTooManyTracked)
	require.False(t, added)
	require.Equal(t, before, tr.Snapshot())

	added, err = tr.AddCurrencies(ctx, MaxTracked, "JPY")
	require.NoError(t, err)
	require.True(t, added)
	require.Len(t, tr.Snapshot().Codes, MaxTracked)
}

func TestTracked_AddCurrencies_ConcurrentAddsRespectCeiling(t *testing.T) {
	tr, _ := newTracked(t)
	ctx := context.Background()
	fillTracked(t, tr, MaxTracked-1)

	var wg sync.WaitGroup
	for _, code := range []string{"JPY", "GBP", "AUD", "CAD"} {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			_, _ = tr.AddCurrencies(ctx, MaxTracked, code)
		}(code)
	}
	wg.Wait()

	s := tr.Snapshot()
	require.Len(t, s.Codes, MaxTracked)
	requireConsistent(t, s)
}

func TestTracked_RemoveCurrencyKeeping(t *testing.T) {
	tr, _ := newTracked(t)
	ctx := context.Background()

	removed, err := tr.RemoveCurrencyKeeping(ctx, "JPY", MinTracked)
	require.NoError(t, err)
	require.False(t, removed)

	removed, err = tr.RemoveCurrencyKeeping(ctx, "EUR", MinTracked)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = tr.RemoveCurrencyKeeping(ctx, "USD", MinTracked)
	require.ErrorIs(t, err, ErrTooFewTracked)
	require.False(t, removed)
	require.Equal(t, []string{"CNY", "USD"}, tr.Snapshot().Codes)
}

func TestTracked_Load_EnforcesBounds(t *testing.T) {
	ctx := context.Background()

	t.Run("single code keeps defaults", func(t *testing.T) {
		kv := memory.NewKVStore()
		require.NoError(t, kv.Set(ctx, storage.KeySelectedCurrencies, []byte(`["GBP","GBP"]`)))

		tr := NewTracked(storage.NewPrefs(kv))
		tr.Load(ctx)

		s := tr.Snapshot()
		require.Equal(t, DefaultTracked, s.Codes)
		requireConsistent(t, s)
	})

	t.Run("too many codes are truncated", func(t *testing.T) {
		kv := memory.NewKVStore()
		codes := `["A01","A02","A03","A04","A05","A06","A07","A08","A09","A10","A11","A12"]`
		require.NoError(t, kv.Set(ctx, storage.KeySelectedCurrencies, []byte(codes)))
		require.NoError(t, kv.Set(ctx, storage.KeyLastInputCurrency, []byte(`"A12"`)))

		tr := NewTracked(storage.NewPrefs(kv))
		tr.Load(ctx)

		s := tr.Snapshot()
		require.Len(t, s.Codes, MaxTracked)
		require.Equal(t, "A10", s.Codes[MaxTracked-1])
		require.Empty(t, s.LastInput)
		requireConsistent(t, s)
	})
}
