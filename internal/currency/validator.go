package currency

import (
	"errors"
	"maps"
	"slices"
)

var (
	ErrCodeRequired     = errors.New("currency code is required")
	ErrCodeUnsupported  = errors.New("currency not supported")
	ErrBaseRequired     = errors.New("base currency is required")
	ErrQuoteRequired    = errors.New("quote currency is required")
	ErrBaseUnsupported  = errors.New("base currency not supported")
	ErrQuoteUnsupported = errors.New("quote currency not supported")
)

type CodeValidator struct {
	supportedCodesSet map[string]struct{} // read only copy
	supportedCodesLst []string            // read only copy
}

func (v *CodeValidator) ValidateCode(code string) error {
	if code == "" {
		return ErrCodeRequired
	}
	if _, ok := v.supportedCodesSet[code]; !ok {
		return ErrCodeUnsupported
	}
	return nil
}

// ValidateCodes checks a from/to pair. Equal codes are allowed; they convert
// at rate 1.
func (v *CodeValidator) ValidateCodes(base, quote string) error {
	if base == "" {
		return ErrBaseRequired
	}
	if quote == "" {
		return ErrQuoteRequired
	}
	if _, ok := v.supportedCodesSet[base]; !ok {
		return ErrBaseUnsupported
	}
	if _, ok := v.supportedCodesSet[quote]; !ok {
		return ErrQuoteUnsupported
	}
	return nil
}

func (v *CodeValidator) SupportedCodes() []string {
	return slices.Clone(v.supportedCodesLst)
}

func NewValidator(supportedCurrencies map[string]struct{}) *CodeValidator {
	codesSet := maps.Clone(supportedCurrencies)
	codesLst := slices.Collect(maps.Keys(codesSet))
	slices.Sort(codesLst)

	return &CodeValidator{
		supportedCodesSet: codesSet,
		supportedCodesLst: codesLst,
	}
}
