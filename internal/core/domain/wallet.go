package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
)

// Wallet is a single-currency balance owned by one user. The balance is
// never negative; Deposit and Withdraw are the only balance-changing
// operations.
type Wallet struct {
	CurrencyCode string          `json:"currency_code"`
	Balance      decimal.Decimal `json:"balance"`
}

// NewWallet creates a zero-balance wallet for the given currency.
func NewWallet(currencyCode string) *Wallet {
	return &Wallet{CurrencyCode: currencyCode, Balance: decimal.Zero}
}

// Deposit credits the wallet. The amount must be strictly positive.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: deposit of %s %s", apperrors.ErrInvalidAmount, amount, w.CurrencyCode)
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// Withdraw debits the wallet. The amount must be strictly positive and must
// not exceed the balance; an invalid call leaves the balance untouched.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: withdrawal of %s %s", apperrors.ErrInvalidAmount, amount, w.CurrencyCode)
	}
	if amount.GreaterThan(w.Balance) {
		return &apperrors.InsufficientFundsError{
			CurrencyCode: w.CurrencyCode,
			Available:    w.Balance,
			Required:     amount,
		}
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}
