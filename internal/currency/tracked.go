package currency

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"fxconv/internal/money"
	"fxconv/internal/storage"
)

const (
	MinTracked = 2
	MaxTracked = 10
)

var (
	ErrTooManyTracked = errors.New("too many tracked currencies")
	ErrTooFewTracked  = errors.New("too few tracked currencies")
)

// DefaultTracked is the initial tracked set for a fresh install.
var DefaultTracked = []string{"CNY", "USD", "EUR"}

type TrackedSnapshot struct {
	Codes     []string          `json:"codes"`
	Amounts   map[string]string `json:"amounts"`
	Active    string            `json:"active"`
	LastInput string            `json:"lastInput"`
}

// Tracked holds the ordered tracked codes and their amounts. Every code has
// exactly one amount entry and vice versa.
type Tracked struct {
	prefs *storage.Prefs

	mu        sync.Mutex
	codes     []string
	amounts   map[string]string
	active    string
	lastInput string
}

// Load restores state from storage. Missing or malformed values keep the
// current state, and amount entries are reconciled with the code list. A
// stored selection with fewer than MinTracked codes is ignored; one with more
// than MaxTracked is truncated.
func (t *Tracked) Load(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var codes []string
	if t.prefs.Load(ctx, storage.KeySelectedCurrencies, &codes) {
		if cleaned := dedupe(codes); len(cleaned) >= MinTracked {
			t.codes = cleaned[:min(len(cleaned), MaxTracked)]
		}
	}

	var amounts map[string]string
	t.prefs.Load(ctx, storage.KeyCurrencyAmounts, &amounts)
	reconciled := make(map[string]string, len(t.codes))
	for _, code := range t.codes {
		reconciled[code] = amounts[code]
	}
	t.amounts = reconciled

	var last string
	if t.prefs.Load(ctx, storage.KeyLastInputCurrency, &last) && t.indexOf(last) >= 0 {
		t.lastInput = last
	}
	t.active = ""
}

// AddCurrencies appends every code not tracked yet, all or none. Nothing
// changes when the result would hold more than limit codes. It reports
// whether any code was added.
func (t *Tracked) AddCurrencies(ctx context.Context, limit int, codes ...string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	missing := make([]string, 0, len(codes))
	for _, c := range codes {
		if t.indexOf(c) < 0 && !slices.Contains(missing, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}
	if len(t.codes)+len(missing) > limit {
		return false, ErrTooManyTracked
	}
	for _, c := range missing {
		t.codes = append(t.codes, c)
		t.amounts[c] = ""
	}
	t.saveSelection(ctx)
	return true, nil
}

// RemoveCurrencyKeeping drops code and its amount together unless that would
// leave fewer than floor codes. A zero floor enforces no minimum. It reports
// false without an error when code is not tracked.
func (t *Tracked) RemoveCurrencyKeeping(ctx context.Context, code string, floor int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(code)
	if i < 0 {
		return false, nil
	}
	if len(t.codes) <= floor {
		return false, ErrTooFewTracked
	}
	t.removeAt(ctx, i)
	return true, nil
}

func (t *Tracked) removeAt(ctx context.Context, i int) {
	code := t.codes[i]
	t.codes = slices.Delete(t.codes, i, i+1)
	delete(t.amounts, code)
	if t.active == code {
		t.active = ""
	}
	if t.lastInput == code {
		t.lastInput = ""
		_ = t.prefs.Remove(ctx, storage.KeyLastInputCurrency)
	}
	t.saveSelection(ctx)
}

// UpdateAmount sets the amount typed into code and makes it active. Untracked
// codes are ignored.
func (t *Tracked) UpdateAmount(ctx context.Context, code, text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indexOf(code) < 0 {
		return false
	}
	t.amounts[code] = text
	t.active = code
	if !money.IsEmptyAmount(text) {
		t.lastInput = code
		_ = t.prefs.Save(ctx, storage.KeyLastInputCurrency, code)
	}
	_ = t.prefs.Save(ctx, storage.KeyCurrencyAmounts, t.amounts)
	return true
}

// SetConverted stores derived amounts for tracked codes without touching the
// active code.
func (t *Tracked) SetConverted(ctx context.Context, amounts map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for code, v := range amounts {
		if _, ok := t.amounts[code]; ok {
			t.amounts[code] = v
		}
	}
	_ = t.prefs.Save(ctx, storage.KeyCurrencyAmounts, t.amounts)
}

func (t *Tracked) ClearAllAmounts(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for code := range t.amounts {
		t.amounts[code] = ""
	}
	t.active = ""
	_ = t.prefs.Save(ctx, storage.KeyCurrencyAmounts, t.amounts)
}

func (t *Tracked) Snapshot() TrackedSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TrackedSnapshot{
		Codes:     slices.Clone(t.codes),
		Amounts:   maps.Clone(t.amounts),
		Active:    t.active,
		LastInput: t.lastInput,
	}
}

func (t *Tracked) indexOf(code string) int {
	return slices.Index(t.codes, code)
}

func (t *Tracked) saveSelection(ctx context.Context) {
	_ = t.prefs.Save(ctx, storage.KeySelectedCurrencies, t.codes)
	_ = t.prefs.Save(ctx, storage.KeyCurrencyAmounts, t.amounts)
}

func dedupe(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func NewTracked(prefs *storage.Prefs) *Tracked {
	codes := slices.Clone(DefaultTracked)
	amounts := make(map[string]string, len(codes))
	for _, c := range codes {
		amounts[c] = ""
	}
	return &Tracked{prefs: prefs, codes: codes, amounts: amounts}
}
