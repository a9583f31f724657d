package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fxconv/internal/domain"
	"fxconv/internal/money"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// maxBodyBytes caps the rates payload read from a source.
const maxBodyBytes = 1 << 20

// RateSource fetches "latest" rates from an exchangerate-style endpoint,
// GET {baseURL}/{base}. Both the open.er-api.com v6 payload (base_code,
// time_last_update_unix) and the exchangerate-api.com v4 payload (base,
// time_last_updated) are accepted.
type RateSource struct {
	http    *http.Client
	name    string
	baseURL string
	now     func() time.Time
}

func (s *RateSource) Name() string { return s.name }

func (s *RateSource) FetchRates(ctx context.Context, base string) (domain.RateSet, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return domain.RateSet{}, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + url.PathEscape(base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.RateSet{}, fmt.Errorf("failed to create request for currency %q: %w", base, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return domain.RateSet{}, fmt.Errorf("%w: request for currency %q: %v", domain.ErrNetwork, base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.RateSet{}, fmt.Errorf("%w: unexpected status code %d for currency %q", domain.ErrNetwork, resp.StatusCode, base)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.RateSet{}, fmt.Errorf("%w: read body for currency %q: %v", domain.ErrNetwork, base, err)
	}

	set, err := s.parse(body, base)
	if err != nil {
		return domain.RateSet{}, fmt.Errorf("%w: currency %q from %s: %v", domain.ErrMalformedResponse, base, s.name, err)
	}
	return set, nil
}

func (s *RateSource) parse(body []byte, requested string) (domain.RateSet, error) {
	if !gjson.ValidBytes(body) {
		return domain.RateSet{}, fmt.Errorf("invalid json")
	}
	doc := gjson.ParseBytes(body)

	ratesNode := doc.Get("rates")
	if !ratesNode.IsObject() {
		return domain.RateSet{}, fmt.Errorf("rates object is missing")
	}

	rates := make(map[string]decimal.Decimal)
	var parseErr error
	ratesNode.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			parseErr = fmt.Errorf("rate for %s is not a number", key.String())
			return false
		}
		r, err := money.ParseRate(value.Raw)
		if err != nil {
			parseErr = fmt.Errorf("rate for %s: %w", key.String(), err)
			return false
		}
		rates[strings.ToUpper(key.String())] = r
		return true
	})
	if parseErr != nil {
		return domain.RateSet{}, parseErr
	}
	if len(rates) == 0 {
		return domain.RateSet{}, fmt.Errorf("rates object is empty")
	}

	resolvedBase := requested
	for _, path := range []string{"base_code", "base"} {
		if v := doc.Get(path); v.Type == gjson.String && v.String() != "" {
			resolvedBase = strings.ToUpper(v.String())
			break
		}
	}

	fetchedAt := s.now()
	for _, path := range []string{"time_last_update_unix", "time_last_updated"} {
		if v := doc.Get(path); v.Type == gjson.Number && v.Int() > 0 {
			fetchedAt = time.UnixMilli(v.Int() * 1000)
			break
		}
	}

	return domain.RateSet{
		Base:      resolvedBase,
		Rates:     rates,
		FetchedAt: fetchedAt,
		Source:    s.name,
	}, nil
}

func NewRateSource(httpClient *http.Client, name, baseURL string) *RateSource {
	return &RateSource{http: httpClient, name: name, baseURL: baseURL, now: time.Now}
}
