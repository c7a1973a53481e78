package jsonfile

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
)

const portfoliosFile = "portfolios.json"

// amount wraps decimal.Decimal so balances serialize as plain JSON numbers,
// matching the documented file format.
type amount struct {
	decimal.Decimal
}

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

type walletRecord struct {
	CurrencyCode string `json:"currency_code"`
	Balance      amount `json:"balance"`
}

type portfolioRecord struct {
	UserID  int                     `json:"user_id"`
	Wallets map[string]walletRecord `json:"wallets"`
}

// PortfolioRepository persists portfolios in portfolios.json.
type PortfolioRepository struct {
	store *Store
}

var _ ports.PortfolioRepository = (*PortfolioRepository)(nil)

func NewPortfolioRepository(store *Store) *PortfolioRepository {
	return &PortfolioRepository{store: store}
}

func (r *PortfolioRepository) ListPortfolios(ctx context.Context) ([]*domain.Portfolio, error) {
	var records []portfolioRecord
	if err := r.store.Load(portfoliosFile, &records); err != nil {
		return nil, err
	}
	portfolios := make([]*domain.Portfolio, len(records))
	for i, rec := range records {
		p := domain.NewPortfolio(rec.UserID)
		for code, w := range rec.Wallets {
			p.Wallets[code] = &domain.Wallet{CurrencyCode: w.CurrencyCode, Balance: w.Balance.Decimal}
		}
		portfolios[i] = p
	}
	return portfolios, nil
}

func (r *PortfolioRepository) SavePortfolios(ctx context.Context, portfolios []*domain.Portfolio) error {
	records := make([]portfolioRecord, len(portfolios))
	for i, p := range portfolios {
		rec := portfolioRecord{UserID: p.UserID, Wallets: make(map[string]walletRecord, len(p.Wallets))}
		for code, w := range p.Wallets {
			rec.Wallets[code] = walletRecord{CurrencyCode: w.CurrencyCode, Balance: amount{w.Balance}}
		}
		records[i] = rec
	}
	return r.store.Save(portfoliosFile, records, true)
}

func (r *PortfolioRepository) FindPortfolioByUserID(ctx context.Context, userID int) (*domain.Portfolio, error) {
	portfolios, err := r.ListPortfolios(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range portfolios {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no portfolio for user id %d", apperrors.ErrUserNotFound, userID)
}
