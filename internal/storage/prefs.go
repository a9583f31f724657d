// Package storage is the typed, best-effort preferences layer over a KVStore.
// Values are JSON. Write failures are logged and swallowed; read failures and
// malformed values read as "absent".
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fxconv/internal/adapters"
	"fxconv/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	KeySelectedCurrencies = "selectedCurrencies"
	KeyCurrencyAmounts    = "currencyAmounts"
	KeyLastInputCurrency  = "lastInputCurrency"
	KeyQueryHistory       = "queryHistory"
	KeyExchangeRates      = "exchangeRates"
	KeyRatesBase          = "ratesBase"
	KeyRatesLastUpdate    = "ratesLastUpdate"
	KeySettings           = "settings"
)

type Prefs struct {
	kv adapters.KVStore
}

// Load decodes key into dst and reports whether a usable value was found.
func (p *Prefs) Load(ctx context.Context, key string, dst any) bool {
	raw, err := p.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logrus.WithError(fmt.Errorf("%w: %v", domain.ErrStorage, err)).
				WithField("key", key).Error("read preference failed")
		}
		return false
	}
	if err = json.Unmarshal(raw, dst); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("ignoring malformed preference")
		return false
	}
	return true
}

// Save encodes v under key. It returns the wrapped error for callers that
// care, but callers in this module only log it.
func (p *Prefs) Save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return p.fail(key, "encode", err)
	}
	if err = p.kv.Set(ctx, key, raw); err != nil {
		return p.fail(key, "write", err)
	}
	return nil
}

func (p *Prefs) Remove(ctx context.Context, key string) error {
	if err := p.kv.Delete(ctx, key); err != nil {
		return p.fail(key, "delete", err)
	}
	return nil
}

func (p *Prefs) fail(key, op string, err error) error {
	wrapped := fmt.Errorf("%w: %s %s: %v", domain.ErrStorage, op, key, err)
	logrus.WithError(wrapped).WithField("key", key).Error("persist preference failed")
	return wrapped
}

func NewPrefs(kv adapters.KVStore) *Prefs {
	return &Prefs{kv: kv}
}
