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

// TradeService executes buy and sell operations. Each trade is terminal on
// first failure: validation and rate lookup happen before any wallet is
// touched, the debit executes strictly before the credit, and the portfolio
// collection is persisted only after both in-memory mutations succeed.
type TradeService struct {
	portfolioRepo ports.PortfolioRepository
	rateRepo      ports.RateCacheRepository
	baseCurrency  string
	logger        *slog.Logger
}

var _ ports.TradeSvc = (*TradeService)(nil)

func NewTradeService(portfolioRepo ports.PortfolioRepository, rateRepo ports.RateCacheRepository, baseCurrency string, logger *slog.Logger) *TradeService {
	return &TradeService{
		portfolioRepo: portfolioRepo,
		rateRepo:      rateRepo,
		baseCurrency:  baseCurrency,
		logger:        logger,
	}
}

// Buy prices req.Amount of the traded currency via the cache, debits the
// base wallet by the counter amount and credits the traded wallet.
func (s *TradeService) Buy(ctx context.Context, session *dto.Session, req dto.TradeRequest) (*dto.TradeResult, error) {
	return s.trade(ctx, session, req, dto.Buy)
}

// Sell debits the traded wallet and credits the base wallet with the counter
// amount. Selling a currency the user has never held fails with
// ErrWalletNotFound before any rate lookup.
func (s *TradeService) Sell(ctx context.Context, session *dto.Session, req dto.TradeRequest) (*dto.TradeResult, error) {
	return s.trade(ctx, session, req, dto.Sell)
}

func (s *TradeService) trade(ctx context.Context, session *dto.Session, req dto.TradeRequest, side dto.TradeSide) (*dto.TradeResult, error) {
	base := req.BaseCurrency
	if base == "" {
		base = s.baseCurrency
	}
	if err := checkTradeCurrency(req.CurrencyCode); err != nil {
		return nil, err
	}
	if err := checkTradeCurrency(base); err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, req.Amount)
	}
	if session == nil {
		return nil, apperrors.ErrUnauthorized
	}

	portfolios, err := s.portfolioRepo.ListPortfolios(ctx)
	if err != nil {
		return nil, err
	}
	var portfolio *domain.Portfolio
	for _, p := range portfolios {
		if p.UserID == session.UserID {
			portfolio = p
			break
		}
	}
	if portfolio == nil {
		return nil, fmt.Errorf("%w: no portfolio for user id %d", apperrors.ErrUserNotFound, session.UserID)
	}

	// A sale needs an existing wallet to sell from; this is checked before
	// the rate lookup so the caller hears about the missing wallet, not
	// about a possibly missing rate.
	if side == dto.Sell {
		if _, err := portfolio.Wallet(req.CurrencyCode); err != nil {
			return nil, err
		}
	}

	cache, err := s.rateRepo.LoadCache(ctx)
	if err != nil {
		return nil, err
	}
	rate, err := cache.GetRate(req.CurrencyCode, base)
	if err != nil {
		return nil, err
	}

	result := &dto.TradeResult{
		Side:         side,
		CurrencyCode: req.CurrencyCode,
		BaseCurrency: base,
		Amount:       req.Amount,
		Rate:         rate.Rate,
	}

	if req.CurrencyCode == base {
		// Degenerate trade on a single wallet: a buy is a pure deposit, a
		// sell a pure withdrawal.
		wallet := portfolio.EnsureWallet(req.CurrencyCode)
		if side == dto.Buy {
			err = wallet.Deposit(req.Amount)
		} else {
			err = wallet.Withdraw(req.Amount)
		}
		if err != nil {
			return nil, err
		}
		result.CounterAmount = req.Amount
		result.Balance = wallet.Balance
		result.BaseBalance = wallet.Balance
	} else {
		counter := req.Amount.Mul(decimal.NewFromFloat(rate.Rate))
		traded := portfolio.EnsureWallet(req.CurrencyCode)
		baseWallet := portfolio.EnsureWallet(base)

		// Debit strictly before credit: a failed debit leaves both wallets
		// untouched and nothing is persisted.
		if side == dto.Buy {
			if err := baseWallet.Withdraw(counter); err != nil {
				return nil, err
			}
			if err := traded.Deposit(req.Amount); err != nil {
				return nil, err
			}
		} else {
			if err := traded.Withdraw(req.Amount); err != nil {
				return nil, err
			}
			if err := baseWallet.Deposit(counter); err != nil {
				return nil, err
			}
		}
		result.CounterAmount = counter
		result.Balance = traded.Balance
		result.BaseBalance = baseWallet.Balance
	}

	if err := s.portfolioRepo.SavePortfolios(ctx, portfolios); err != nil {
		return nil, err
	}

	s.logger.Info("trade executed",
		slog.String("side", string(side)),
		slog.Int("user_id", session.UserID),
		slog.String("currency", req.CurrencyCode),
		slog.String("base_currency", base),
		slog.String("amount", req.Amount.String()),
		slog.Float64("rate", rate.Rate))
	return result, nil
}

// checkTradeCurrency validates the code syntactically and against the
// registry, so a trade in an unknown currency aborts before any lookup.
func checkTradeCurrency(code string) error {
	if err := domain.ValidateCode(code); err != nil {
		return err
	}
	if _, err := domain.GetCurrency(code); err != nil {
		return err
	}
	return nil
}
