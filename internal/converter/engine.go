// Package converter turns an amount typed into one tracked currency into
// amounts for all the others.
package converter

import (
	"fxconv/internal/domain"
	"fxconv/internal/money"

	"github.com/sirupsen/logrus"
)

// Convert expresses amount of from in to, routing through the rate set's
// base. It returns "" for the empty sentinel, an unparsable amount or a
// missing rate.
func Convert(amount, from, to string, rates domain.RateSet) string {
	if money.IsEmptyAmount(amount) {
		return ""
	}
	if from == to {
		return amount
	}

	value, err := money.ParseAmount(amount)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"from": from, "to": to}).Error("conversion failed")
		return ""
	}
	fromRate, okFrom := rates.RateOf(from)
	toRate, okTo := rates.RateOf(to)
	if !okFrom || !okTo {
		logrus.WithFields(logrus.Fields{"from": from, "to": to, "base": rates.Base}).Warn("incomplete rate data")
		return ""
	}

	result, err := money.MulDiv(value, toRate, fromRate)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"from": from, "to": to}).Warn("incomplete rate data")
		return ""
	}
	return result.String()
}

// BatchConvert converts into every target independently; one failure leaves
// "" for that target only.
func BatchConvert(amount, from string, targets []string, rates domain.RateSet) map[string]string {
	out := make(map[string]string, len(targets))
	for _, to := range targets {
		out[to] = Convert(amount, from, to, rates)
	}
	return out
}
