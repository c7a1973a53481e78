package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valutatrade/valutatrade-hub/internal/adapters/storage/jsonfile"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/core/services"
)

type fakeSource struct {
	name  string
	rates []domain.ExchangeRate
	err   error
	calls int
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) FetchRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rates, nil
}

type updaterFixture struct {
	updater  *services.UpdaterService
	rateRepo *jsonfile.RateRepository
	rates    *services.RatesService
	dataDir  string
}

func newUpdaterFixture(t *testing.T, sources ...ports.RateSource) *updaterFixture {
	t.Helper()
	store, err := jsonfile.NewStore(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rateRepo := jsonfile.NewRateRepository(store)
	return &updaterFixture{
		updater:  services.NewUpdaterService(sources, rateRepo, rateRepo, logger),
		rateRepo: rateRepo,
		rates:    services.NewRatesService(rateRepo, logger),
		dataDir:  store.Dir(),
	}
}

func obsAt(from, to string, rate float64) domain.ExchangeRate {
	return domain.ExchangeRate{FromCurrency: from, ToCurrency: to, Rate: rate, UpdatedAt: time.Now().UTC()}
}

func TestRunUpdateMergesAllSources(t *testing.T) {
	crypto := &fakeSource{name: "CoinGecko", rates: []domain.ExchangeRate{obsAt("BTC", "USD", 50000)}}
	fiat := &fakeSource{name: "ExchangeRate-API", rates: []domain.ExchangeRate{obsAt("EUR", "USD", 1.08)}}
	f := newUpdaterFixture(t, crypto, fiat)
	ctx := context.Background()

	summary, err := f.updater.RunUpdate(ctx, "")
	require.NoError(t, err)
	assert.False(t, summary.HasErrors)
	assert.Equal(t, 2, summary.RatesUpdated)

	cache, err := f.rateRepo.LoadCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, "RatesUpdater", cache.Source(), "the cycle writes its own source tag")

	for _, pair := range [][2]string{{"BTC", "USD"}, {"EUR", "USD"}} {
		_, err := cache.GetRate(pair[0], pair[1])
		assert.NoError(t, err)
	}
}

func TestRunUpdatePartialFailure(t *testing.T) {
	failing := &fakeSource{name: "CoinGecko", err: apperrors.ErrSourceUnreachable}
	working := &fakeSource{name: "ExchangeRate-API", rates: []domain.ExchangeRate{obsAt("EUR", "USD", 1.08)}}
	f := newUpdaterFixture(t, failing, working)
	ctx := context.Background()

	summary, err := f.updater.RunUpdate(ctx, "")
	require.NoError(t, err, "one healthy source is enough")
	assert.True(t, summary.HasErrors)
	assert.Equal(t, 1, summary.RatesUpdated)

	cache, err := f.rateRepo.LoadCache(ctx)
	require.NoError(t, err)
	_, err = cache.GetRate("EUR", "USD")
	assert.NoError(t, err)
	_, err = cache.GetRate("BTC", "USD")
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)

	view, err := f.rates.ListRates(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Rates, 2, "only the succeeding source's pair made it in")
}

func TestRunUpdateAllSourcesFail(t *testing.T) {
	a := &fakeSource{name: "CoinGecko", err: apperrors.ErrSourceRateLimited}
	b := &fakeSource{name: "ExchangeRate-API", err: errors.New("boom")}
	f := newUpdaterFixture(t, a, b)

	_, err := f.updater.RunUpdate(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrRefreshFailed)

	cache, err := f.rateRepo.LoadCache(context.Background())
	require.NoError(t, err)
	assert.Zero(t, cache.Len(), "a fully failed cycle writes nothing")
}

func TestRunUpdateSourceFilter(t *testing.T) {
	crypto := &fakeSource{name: "CoinGecko", rates: []domain.ExchangeRate{obsAt("BTC", "USD", 50000)}}
	fiat := &fakeSource{name: "ExchangeRate-API", rates: []domain.ExchangeRate{obsAt("EUR", "USD", 1.08)}}
	f := newUpdaterFixture(t, crypto, fiat)

	summary, err := f.updater.RunUpdate(context.Background(), "coingecko")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RatesUpdated)
	assert.Equal(t, 1, crypto.calls)
	assert.Zero(t, fiat.calls, "filtered-out source is never called")

	_, err = f.updater.RunUpdate(context.Background(), "NoSuchSource")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRunUpdateLastSourceWinsOnSamePair(t *testing.T) {
	first := &fakeSource{name: "CoinGecko", rates: []domain.ExchangeRate{obsAt("BTC", "USD", 50000)}}
	second := &fakeSource{name: "ExchangeRate-API", rates: []domain.ExchangeRate{obsAt("BTC", "USD", 51000)}}
	f := newUpdaterFixture(t, first, second)

	_, err := f.updater.RunUpdate(context.Background(), "")
	require.NoError(t, err)

	cache, err := f.rateRepo.LoadCache(context.Background())
	require.NoError(t, err)
	rate, err := cache.GetRate("BTC", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 51000.0, rate.Rate, 1e-9)
}

func TestRunUpdateAppendsHistoryPerSource(t *testing.T) {
	failing := &fakeSource{name: "CoinGecko", err: apperrors.ErrSourceForbidden}
	working := &fakeSource{name: "ExchangeRate-API", rates: []domain.ExchangeRate{obsAt("EUR", "USD", 1.08)}}
	f := newUpdaterFixture(t, failing, working)
	ctx := context.Background()

	_, err := f.updater.RunUpdate(ctx, "")
	require.NoError(t, err)
	_, err = f.updater.RunUpdate(ctx, "")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(f.dataDir, "exchange_rates.json"))
	require.NoError(t, err)
	var records []struct {
		FromCurrency string `json:"from_currency"`
		Source       string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2, "one record per raw observation per run, none from the failing source")
	for _, rec := range records {
		assert.Equal(t, "ExchangeRate-API", rec.Source)
		assert.Equal(t, "EUR", rec.FromCurrency)
	}
}
