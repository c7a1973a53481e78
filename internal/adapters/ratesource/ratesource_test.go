package ratesource_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valutatrade/valutatrade-hub/internal/adapters/ratesource"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
)

var testCryptoIDs = map[string]string{"BTC": "bitcoin", "ETH": "ethereum"}

func TestCoinGeckoFetchRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"bitcoin": {"usd": 59337.21}, "ethereum": {"usd": 3400.5}}`))
	}))
	defer srv.Close()

	src := ratesource.NewCoinGecko(srv.URL, "USD", testCryptoIDs, srv.Client())
	rates, err := src.FetchRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "BTC", rates[0].FromCurrency)
	assert.Equal(t, "USD", rates[0].ToCurrency)
	assert.InDelta(t, 59337.21, rates[0].Rate, 1e-9)
	assert.Equal(t, "ETH", rates[1].FromCurrency)
}

func TestCoinGeckoIgnoresUnknownCoins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dogecoin": {"usd": 0.1}, "bitcoin": {"usd": 50000}}`))
	}))
	defer srv.Close()

	src := ratesource.NewCoinGecko(srv.URL, "USD", testCryptoIDs, srv.Client())
	rates, err := src.FetchRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "BTC", rates[0].FromCurrency)
}

func TestCoinGeckoStatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"too many requests", http.StatusTooManyRequests, apperrors.ErrSourceRateLimited},
		{"forbidden", http.StatusForbidden, apperrors.ErrSourceForbidden},
		{"service unavailable", http.StatusServiceUnavailable, apperrors.ErrSourceUnreachable},
		{"request timeout", http.StatusRequestTimeout, apperrors.ErrSourceUnreachable},
		{"other client error", http.StatusNotFound, apperrors.ErrSourceUnreachable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			src := ratesource.NewCoinGecko(srv.URL, "USD", testCryptoIDs, srv.Client())
			_, err := src.FetchRates(context.Background())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCoinGeckoMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	src := ratesource.NewCoinGecko(srv.URL, "USD", testCryptoIDs, srv.Client())
	_, err := src.FetchRates(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSourceMalformed)
}

func TestCoinGeckoUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	src := ratesource.NewCoinGecko(srv.URL, "USD", testCryptoIDs, &http.Client{Timeout: time.Second})
	_, err := src.FetchRates(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSourceUnreachable)
}

func TestExchangeRateAPIFetchRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/latest/USD", r.URL.Path)
		w.Write([]byte(`{
			"result": "success",
			"time_last_update_unix": 1743585000,
			"rates": {"USD": 1, "EUR": 0.92, "GBP": 0.79, "AUD": 1.5}
		}`))
	}))
	defer srv.Close()

	src := ratesource.NewExchangeRateAPI(srv.URL+"/v6/latest/", "USD", []string{"EUR", "GBP", "JPY"}, srv.Client())
	rates, err := src.FetchRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 2, "only configured fiat codes survive the filter")
	assert.Equal(t, "EUR", rates[0].FromCurrency)
	assert.Equal(t, "USD", rates[0].ToCurrency)
	assert.InDelta(t, 0.92, rates[0].Rate, 1e-9)
	assert.Equal(t, "GBP", rates[1].FromCurrency)
	assert.True(t, rates[0].UpdatedAt.Equal(time.Unix(1743585000, 0).UTC()),
		"observation time comes from the provider")
}

func TestExchangeRateAPIErrorEnvelope(t *testing.T) {
	cases := []struct {
		errorType string
		want      error
	}{
		{"unsupported-code", apperrors.ErrSourceMalformed},
		{"malformed-request", apperrors.ErrSourceMalformed},
		{"invalid-key", apperrors.ErrSourceForbidden},
		{"inactive-account", apperrors.ErrSourceForbidden},
		{"quota-reached", apperrors.ErrSourceRateLimited},
		{"brand-new-error", apperrors.ErrSourceUnreachable},
	}
	for _, tc := range cases {
		t.Run(tc.errorType, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"result": "error", "error-type": "` + tc.errorType + `"}`))
			}))
			defer srv.Close()

			src := ratesource.NewExchangeRateAPI(srv.URL, "USD", []string{"EUR"}, srv.Client())
			_, err := src.FetchRates(context.Background())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

type stubSource struct {
	calls int
	rates []domain.ExchangeRate
}

func (s *stubSource) Name() string { return "Stub" }

func (s *stubSource) FetchRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	s.calls++
	return s.rates, nil
}

func TestThrottledEnforcesQuota(t *testing.T) {
	stub := &stubSource{rates: []domain.ExchangeRate{{FromCurrency: "BTC", ToCurrency: "USD", Rate: 50000}}}
	src, err := ratesource.NewThrottled(stub, "2-H")
	require.NoError(t, err)
	assert.Equal(t, "Stub", src.Name())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		rates, err := src.FetchRates(ctx)
		require.NoError(t, err)
		assert.Len(t, rates, 1)
	}

	_, err = src.FetchRates(ctx)
	assert.ErrorIs(t, err, apperrors.ErrSourceRateLimited)
	assert.Equal(t, 2, stub.calls, "the over-quota fetch never reaches the provider")
}

func TestThrottledRejectsBadQuota(t *testing.T) {
	_, err := ratesource.NewThrottled(&stubSource{}, "lots")
	assert.Error(t, err)
}
