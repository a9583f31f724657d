package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const zeroDisplay = "0.00"

var leadingZeros = regexp.MustCompile(`^0+(\d)`)

// FormatAmount rounds text to places and groups the integer digits with sep.
// The decimal point is always ".". Empty, zero or invalid input renders as
// "0.00".
func FormatAmount(text string, places int, sep string) string {
	text = strings.TrimSpace(text)
	if text == "" || text == "0" {
		return zeroDisplay
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		logrus.WithError(err).WithField("amount", text).Warn("format amount failed")
		return zeroDisplay
	}
	return FormatNumber(ToFixed(d, places), sep)
}

// FormatNumber groups the integer digits of text without rounding.
func FormatNumber(text, sep string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return text
	}
	places := 0
	if i := strings.IndexByte(text, '.'); i >= 0 {
		places = len(text) - i - 1
	}
	return accounting.FormatNumberDecimal(d, places, sep, ".")
}

// ValidateAmount reports whether value is a plain unsigned decimal with at
// most maxDecimals fractional digits. Empty input is valid.
func ValidateAmount(value string, maxDecimals int) bool {
	if value == "" {
		return true
	}
	re, err := regexp.Compile(fmt.Sprintf(`^\d*\.?\d{0,%d}$`, maxDecimals))
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// CleanAmount strips redundant leading zeros and completes a bare leading
// dot, e.g. "007" -> "7", ".5" -> "0.5".
func CleanAmount(value string) string {
	if value == "" {
		return ""
	}
	cleaned := leadingZeros.ReplaceAllString(value, "$1")
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	return cleaned
}
