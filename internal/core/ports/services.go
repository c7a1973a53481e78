package ports

import (
	"context"

	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

// Service facades consumed by the interface layer (the CLI). The session is
// always passed explicitly; no service keeps a current-user global.

// AuthSvc handles registration, login and session verification.
type AuthSvc interface {
	Register(ctx context.Context, req dto.RegisterRequest) (int, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.Session, error)
	Verify(ctx context.Context, token string) (*dto.Session, error)
	ChangePassword(ctx context.Context, session *dto.Session, req dto.ChangePasswordRequest) error
}

// TradeSvc executes buy and sell operations against the rate cache.
type TradeSvc interface {
	Buy(ctx context.Context, session *dto.Session, req dto.TradeRequest) (*dto.TradeResult, error)
	Sell(ctx context.Context, session *dto.Session, req dto.TradeRequest) (*dto.TradeResult, error)
}

// PortfolioSvc reads and maintains a user's wallets.
type PortfolioSvc interface {
	Show(ctx context.Context, session *dto.Session, baseCurrency string) (*dto.PortfolioView, error)
	AddCurrency(ctx context.Context, session *dto.Session, currencyCode string) error
}

// RatesSvc answers rate and currency lookups from the cached data.
type RatesSvc interface {
	GetRate(ctx context.Context, from, to string) (*dto.RateInfo, error)
	ListRates(ctx context.Context) (*dto.RatesView, error)
	ListCurrencies(ctx context.Context) []dto.CurrencyInfo
}

// UpdaterSvc runs one refresh cycle against the configured rate sources.
// The filter selects a single source by name; empty means all.
type UpdaterSvc interface {
	RunUpdate(ctx context.Context, sourceFilter string) (*dto.UpdateSummary, error)
}
