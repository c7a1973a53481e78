package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

// PortfolioService reads and maintains a user's wallets.
type PortfolioService struct {
	portfolioRepo ports.PortfolioRepository
	rateRepo      ports.RateCacheRepository
	baseCurrency  string
	logger        *slog.Logger
}

var _ ports.PortfolioSvc = (*PortfolioService)(nil)

func NewPortfolioService(portfolioRepo ports.PortfolioRepository, rateRepo ports.RateCacheRepository, baseCurrency string, logger *slog.Logger) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		rateRepo:      rateRepo,
		baseCurrency:  baseCurrency,
		logger:        logger,
	}
}

// Show returns the per-wallet breakdown and the total, all valued in the
// base currency. It fails if any held currency has no recorded rate to the
// base: a partial total would be misleading.
func (s *PortfolioService) Show(ctx context.Context, session *dto.Session, baseCurrency string) (*dto.PortfolioView, error) {
	if session == nil {
		return nil, apperrors.ErrUnauthorized
	}
	base := baseCurrency
	if base == "" {
		base = s.baseCurrency
	}
	if err := checkTradeCurrency(base); err != nil {
		return nil, err
	}

	portfolio, err := s.portfolioRepo.FindPortfolioByUserID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	cache, err := s.rateRepo.LoadCache(ctx)
	if err != nil {
		return nil, err
	}

	view := &dto.PortfolioView{
		Username:     session.Username,
		BaseCurrency: base,
		Total:        decimal.Zero,
	}
	for _, code := range portfolio.CurrencyCodes() {
		wallet := portfolio.Wallets[code]
		value := wallet.Balance
		if code != base {
			rate, err := cache.GetRate(code, base)
			if err != nil {
				return nil, err
			}
			value = wallet.Balance.Mul(decimal.NewFromFloat(rate.Rate))
		}
		view.Lines = append(view.Lines, dto.PortfolioLine{
			CurrencyCode: code,
			Balance:      wallet.Balance,
			BaseValue:    value,
		})
		view.Total = view.Total.Add(value)
	}
	return view, nil
}

// AddCurrency creates an empty wallet for a registered currency, so it shows
// up in the portfolio before the first purchase. Idempotent.
func (s *PortfolioService) AddCurrency(ctx context.Context, session *dto.Session, currencyCode string) error {
	if session == nil {
		return apperrors.ErrUnauthorized
	}

	portfolios, err := s.portfolioRepo.ListPortfolios(ctx)
	if err != nil {
		return err
	}
	var portfolio *domain.Portfolio
	for _, p := range portfolios {
		if p.UserID == session.UserID {
			portfolio = p
			break
		}
	}
	if portfolio == nil {
		return fmt.Errorf("%w: no portfolio for user id %d", apperrors.ErrUserNotFound, session.UserID)
	}

	if err := portfolio.AddCurrency(currencyCode); err != nil {
		return err
	}
	if err := s.portfolioRepo.SavePortfolios(ctx, portfolios); err != nil {
		return err
	}

	s.logger.Info("currency added to portfolio",
		slog.Int("user_id", session.UserID),
		slog.String("currency", currencyCode))
	return nil
}
