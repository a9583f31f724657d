package rate

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"fxconv/internal/domain"

	"github.com/shopspring/decimal"
)

//go:embed data/default_rates.json
var defaultRatesJSON []byte

const defaultsSource = "bundled"

type bundledRates struct {
	Base      string                     `json:"base"`
	Timestamp int64                      `json:"timestamp"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// DefaultRates decodes the dataset compiled into the binary. The returned set
// is a fresh copy on every call.
func DefaultRates() (domain.RateSet, error) {
	var b bundledRates
	if err := json.Unmarshal(defaultRatesJSON, &b); err != nil {
		return domain.RateSet{}, fmt.Errorf("decode bundled rates: %w", err)
	}
	if b.Base == "" || len(b.Rates) == 0 {
		return domain.RateSet{}, fmt.Errorf("bundled rates are empty")
	}
	return domain.RateSet{
		Base:      b.Base,
		Rates:     b.Rates,
		FetchedAt: time.UnixMilli(b.Timestamp),
		Source:    defaultsSource,
	}, nil
}
