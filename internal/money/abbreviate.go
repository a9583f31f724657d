package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

type unit struct {
	size   decimal.Decimal
	suffix string
}

var (
	westernUnits = []unit{
		{decimal.New(1, 12), "T"},
		{decimal.New(1, 9), "B"},
		{decimal.New(1, 6), "M"},
		{decimal.New(1, 3), "K"},
	}
	chineseUnits = []unit{
		{decimal.New(1, 8), "亿"},
		{decimal.New(1, 4), "万"},
	}
)

// Abbreviate shortens large amounts for compact display using the unit
// system of locale (K/M/B/T, or 万/亿 for Chinese). At most two fractional
// digits are kept.
func Abbreviate(text, locale string) string {
	if IsEmptyAmount(text) {
		return "0"
	}
	d, err := ParseAmount(text)
	if err != nil {
		return text
	}
	units := westernUnits
	if strings.HasPrefix(locale, "zh") {
		units = chineseUnits
	}
	abs := d.Abs()
	for _, u := range units {
		if abs.GreaterThanOrEqual(u.size) {
			return d.DivRound(u.size, 2).String() + u.suffix
		}
	}
	return d.Round(2).String()
}
