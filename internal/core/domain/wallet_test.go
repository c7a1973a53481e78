package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
)

func TestWalletDepositWithdraw(t *testing.T) {
	w := domain.NewWallet("USD")

	require.NoError(t, w.Deposit(decimal.NewFromInt(100)))
	require.NoError(t, w.Withdraw(decimal.NewFromInt(40)))
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(60)))

	t.Run("invalid amounts do not alter balance", func(t *testing.T) {
		before := w.Balance
		assert.ErrorIs(t, w.Deposit(decimal.Zero), apperrors.ErrInvalidAmount)
		assert.ErrorIs(t, w.Deposit(decimal.NewFromInt(-5)), apperrors.ErrInvalidAmount)
		assert.ErrorIs(t, w.Withdraw(decimal.Zero), apperrors.ErrInvalidAmount)
		assert.True(t, w.Balance.Equal(before))
	})

	t.Run("overdraft is rejected with details", func(t *testing.T) {
		err := w.Withdraw(decimal.NewFromInt(1000))
		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

		var insufficient *apperrors.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, "USD", insufficient.CurrencyCode)
		assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(60)))
		assert.True(t, insufficient.Required.Equal(decimal.NewFromInt(1000)))
		assert.True(t, w.Balance.Equal(decimal.NewFromInt(60)), "failed withdraw leaves balance untouched")
	})

	t.Run("balance equals valid deposits minus valid withdrawals", func(t *testing.T) {
		w := domain.NewWallet("EUR")
		sum := decimal.Zero
		for _, d := range []int64{5, 0, 17, -3, 42} {
			amount := decimal.NewFromInt(d)
			if w.Deposit(amount) == nil {
				sum = sum.Add(amount)
			}
		}
		for _, d := range []int64{10, -1, 100, 7} {
			amount := decimal.NewFromInt(d)
			if w.Withdraw(amount) == nil {
				sum = sum.Sub(amount)
			}
		}
		assert.True(t, w.Balance.Equal(sum))
		assert.False(t, w.Balance.IsNegative())
	})
}

func TestPortfolio(t *testing.T) {
	p := domain.NewPortfolio(1)

	t.Run("wallet lookup before first credit", func(t *testing.T) {
		_, err := p.Wallet("EUR")
		assert.ErrorIs(t, err, apperrors.ErrWalletNotFound)
	})

	t.Run("ensure creates lazily and is stable", func(t *testing.T) {
		w := p.EnsureWallet("USD")
		assert.Same(t, w, p.EnsureWallet("USD"))
	})

	t.Run("add currency validates against the registry", func(t *testing.T) {
		assert.ErrorIs(t, p.AddCurrency("not-a-code"), apperrors.ErrInvalidCurrencyCode)
		assert.ErrorIs(t, p.AddCurrency("ZZZ"), apperrors.ErrCurrencyNotFound)

		require.NoError(t, p.AddCurrency("BTC"))
		require.NoError(t, p.AddCurrency("BTC")) // idempotent
		w, err := p.Wallet("BTC")
		require.NoError(t, err)
		assert.True(t, w.Balance.IsZero())
	})
}

func TestPortfolioTotalValue(t *testing.T) {
	now := time.Now().UTC()
	cache := domain.NewRateCache()
	cache.Update("test", now, []domain.ExchangeRate{
		obs(t, "BTC", "USD", 50000.0, now),
		obs(t, "EUR", "USD", 1.25, now),
	})

	p := domain.NewPortfolio(1)
	require.NoError(t, p.EnsureWallet("USD").Deposit(decimal.NewFromInt(1000)))
	require.NoError(t, p.EnsureWallet("BTC").Deposit(decimal.NewFromFloat(0.5)))
	require.NoError(t, p.EnsureWallet("EUR").Deposit(decimal.NewFromInt(100)))

	total, err := p.TotalValue(cache, "USD")
	require.NoError(t, err)
	// 1000 + 0.5*50000 + 100*1.25
	assert.True(t, total.Equal(decimal.NewFromInt(26125)), "got %s", total)

	t.Run("propagates missing conversion path", func(t *testing.T) {
		p.EnsureWallet("JPY")
		_, err := p.TotalValue(cache, "USD")
		assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
	})
}
