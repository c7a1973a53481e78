package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valutatrade/valutatrade-hub/internal/adapters/storage/jsonfile"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/services"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
	"github.com/valutatrade/valutatrade-hub/internal/platform/config"
)

type fixture struct {
	auth       *services.AuthService
	trades     *services.TradeService
	portfolios *services.PortfolioService
	rates      *services.RatesService
	rateRepo   *jsonfile.RateRepository
	pfRepo     *jsonfile.PortfolioRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := jsonfile.NewStore(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		BaseCurrency:      "USD",
		JWTSecret:         "test-secret",
		JWTIssuer:         "test",
		JWTExpiryDuration: time.Hour,
	}
	userRepo := jsonfile.NewUserRepository(store)
	pfRepo := jsonfile.NewPortfolioRepository(store)
	rateRepo := jsonfile.NewRateRepository(store)
	return &fixture{
		auth:       services.NewAuthService(userRepo, pfRepo, cfg, logger),
		trades:     services.NewTradeService(pfRepo, rateRepo, cfg.BaseCurrency, logger),
		portfolios: services.NewPortfolioService(pfRepo, rateRepo, cfg.BaseCurrency, logger),
		rates:      services.NewRatesService(rateRepo, logger),
		rateRepo:   rateRepo,
		pfRepo:     pfRepo,
	}
}

// registerAndLogin creates a user and returns their session.
func (f *fixture) registerAndLogin(t *testing.T, username, password string) *dto.Session {
	t.Helper()
	ctx := context.Background()
	_, err := f.auth.Register(ctx, dto.RegisterRequest{Username: username, Password: password})
	require.NoError(t, err)
	session, err := f.auth.Login(ctx, dto.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	return session
}

// seedRates overwrites the cache snapshot with the given observations.
func (f *fixture) seedRates(t *testing.T, observations ...domain.ExchangeRate) {
	t.Helper()
	cache := domain.NewRateCache()
	cache.Update("seed", time.Now().UTC(), observations)
	require.NoError(t, f.rateRepo.SaveCache(context.Background(), cache))
}
