package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fxconv/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	got := new(http.Request)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = *r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestRateSource_PrimarySchema(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{
		"result": "success",
		"base_code": "USD",
		"time_last_update_unix": 1700000000,
		"rates": {"USD": 1, "EUR": 0.9, "CNY": 7.0}
	}`)

	s := NewRateSource(srv.Client(), "primary", srv.URL+"/v6/latest/")
	set, err := s.FetchRates(context.Background(), "USD")
	require.NoError(t, err)

	require.Equal(t, "/v6/latest/USD", got.URL.Path)
	require.Equal(t, http.MethodGet, got.Method)
	require.Equal(t, "application/json", got.Header.Get("Content-Type"))

	require.Equal(t, "USD", set.Base)
	require.Equal(t, "primary", set.Source)
	require.Equal(t, int64(1700000000000), set.TimestampMillis())
	require.Len(t, set.Rates, 3)
	require.True(t, decimal.RequireFromString("0.9").Equal(set.Rates["EUR"]))
	require.True(t, decimal.NewFromInt(7).Equal(set.Rates["CNY"]))
}

func TestRateSource_FallbackSchema(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{
		"base": "USD",
		"time_last_updated": 1700000100,
		"rates": {"USD": 1, "JPY": 150.25}
	}`)

	s := NewRateSource(srv.Client(), "fallback", srv.URL+"/v4/latest")
	set, err := s.FetchRates(context.Background(), "USD")
	require.NoError(t, err)
	require.Equal(t, "USD", set.Base)
	require.Equal(t, int64(1700000100000), set.TimestampMillis())
	require.True(t, decimal.RequireFromString("150.25").Equal(set.Rates["JPY"]))
}

func TestRateSource_KeepsRawNumberPrecision(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"base":"USD","rates":{"IDR":15634.123456789012345678}}`)

	s := NewRateSource(srv.Client(), "primary", srv.URL)
	set, err := s.FetchRates(context.Background(), "USD")
	require.NoError(t, err)
	require.Equal(t, "15634.123456789012345678", set.Rates["IDR"].String())
}

func TestRateSource_DefaultsBaseAndTimestamp(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"rates":{"EUR":0.9}}`)

	fixed := time.UnixMilli(1234567890123)
	s := NewRateSource(srv.Client(), "primary", srv.URL)
	s.now = func() time.Time { return fixed }

	set, err := s.FetchRates(context.Background(), "GBP")
	require.NoError(t, err)
	require.Equal(t, "GBP", set.Base)
	require.Equal(t, int64(1234567890123), set.TimestampMillis())
}

func TestRateSource_StatusCodeError(t *testing.T) {
	srv, _ := newServer(t, http.StatusServiceUnavailable, `nope`)

	s := NewRateSource(srv.Client(), "primary", srv.URL)
	_, err := s.FetchRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrNetwork)
	require.Contains(t, err.Error(), "unexpected status code 503")
	require.Contains(t, err.Error(), "USD")
}

func TestRateSource_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewRateSource(&http.Client{Timeout: time.Second}, "primary", url)
	_, err := s.FetchRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestRateSource_MalformedResponses(t *testing.T) {
	cases := map[string]string{
		"invalid json":  `{`,
		"missing rates": `{"base":"USD"}`,
		"empty rates":   `{"base":"USD","rates":{}}`,
		"rates array":   `{"base":"USD","rates":[1,2]}`,
		"string rate":   `{"base":"USD","rates":{"EUR":"0.9"}}`,
		"zero rate":     `{"base":"USD","rates":{"EUR":0}}`,
		"negative rate": `{"base":"USD","rates":{"EUR":-1.5}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := newServer(t, http.StatusOK, body)
			s := NewRateSource(srv.Client(), "primary", srv.URL)
			_, err := s.FetchRates(context.Background(), "USD")
			require.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestRateSource_OversizedBodyIsTruncated(t *testing.T) {
	pad := strings.Repeat("x", 2*maxBodyBytes)
	srv, _ := newServer(t, http.StatusOK, `{"base":"USD","rates":{"EUR":0.9},"pad":"`+pad+`"}`)
	s := NewRateSource(srv.Client(), "primary", srv.URL)

	_, err := s.FetchRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestRateSource_BaseURLParseError(t *testing.T) {
	s := NewRateSource(&http.Client{}, "primary", "http://::1]")
	_, err := s.FetchRates(context.Background(), "USD")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse base URL")
}
