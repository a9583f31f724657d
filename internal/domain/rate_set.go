package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSet is a snapshot of rates relative to Base. It is always replaced as a
// whole, never merged.
type RateSet struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetched_at"`
	Source    string                     `json:"source,omitempty"`
}

// RateOf returns the rate for code. The base currency resolves to 1 even
// when it is absent from Rates.
func (s RateSet) RateOf(code string) (decimal.Decimal, bool) {
	if r, ok := s.Rates[code]; ok {
		return r, true
	}
	if code != "" && code == s.Base {
		return decimal.NewFromInt(1), true
	}
	return decimal.Zero, false
}

func (s RateSet) IsEmpty() bool {
	return len(s.Rates) == 0
}

// TimestampMillis is the fetch time as a millisecond epoch.
func (s RateSet) TimestampMillis() int64 {
	return s.FetchedAt.UnixMilli()
}
