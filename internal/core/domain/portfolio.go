package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
)

// Portfolio is the full set of a user's wallets, at most one per currency
// code. Wallets are created lazily on first credit and never removed: a
// zero-balance wallet persists.
type Portfolio struct {
	UserID  int                `json:"user_id"`
	Wallets map[string]*Wallet `json:"wallets"`
}

// NewPortfolio creates an empty portfolio for the given user.
func NewPortfolio(userID int) *Portfolio {
	return &Portfolio{UserID: userID, Wallets: make(map[string]*Wallet)}
}

// Wallet returns the wallet for a currency the user has held.
func (p *Portfolio) Wallet(currencyCode string) (*Wallet, error) {
	w, ok := p.Wallets[currencyCode]
	if !ok {
		return nil, fmt.Errorf("%w: you have no %q wallet, it is created on first purchase", apperrors.ErrWalletNotFound, currencyCode)
	}
	return w, nil
}

// EnsureWallet returns the wallet for the currency, creating a zero-balance
// one if absent. The code is expected to be validated by the caller.
func (p *Portfolio) EnsureWallet(currencyCode string) *Wallet {
	if w, ok := p.Wallets[currencyCode]; ok {
		return w
	}
	w := NewWallet(currencyCode)
	p.Wallets[currencyCode] = w
	return w
}

// AddCurrency creates a zero-balance wallet for a registered currency.
// Idempotent: adding a currency the user already holds is a no-op.
func (p *Portfolio) AddCurrency(currencyCode string) error {
	if err := ValidateCode(currencyCode); err != nil {
		return err
	}
	if _, err := GetCurrency(currencyCode); err != nil {
		return err
	}
	p.EnsureWallet(currencyCode)
	return nil
}

// CurrencyCodes returns the held currency codes in sorted order.
func (p *Portfolio) CurrencyCodes() []string {
	codes := make([]string, 0, len(p.Wallets))
	for code := range p.Wallets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TotalValue sums every wallet's balance expressed in the base currency,
// using the cache for conversion. It fails with ErrRateUnavailable if any
// held currency has no recorded path to the base.
func (p *Portfolio) TotalValue(cache *RateCache, baseCurrency string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, code := range p.CurrencyCodes() {
		w := p.Wallets[code]
		if code == baseCurrency {
			total = total.Add(w.Balance)
			continue
		}
		rate, err := cache.GetRate(code, baseCurrency)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(w.Balance.Mul(decimal.NewFromFloat(rate.Rate)))
	}
	return total, nil
}
