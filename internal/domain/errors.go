package domain

import "errors"

var (
	ErrNetwork           = errors.New("network request failed")
	ErrMalformedResponse = errors.New("malformed rates response")
	ErrRatesUnavailable  = errors.New("exchange rates unavailable")
	ErrInvalidRate       = errors.New("invalid or missing rate")
	ErrStorage           = errors.New("storage operation failed")
	ErrNotFound          = errors.New("not found")
)
