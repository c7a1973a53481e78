package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

func TestShowPortfolio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.registerAndLogin(t, "alice", "secret1")
	f.seedRates(t, btcUSD(50000))
	fund(t, f, session, "USD", 150000)

	_, err := f.trades.Buy(ctx, session, dto.TradeRequest{CurrencyCode: "BTC", Amount: decimal.NewFromInt(2)})
	require.NoError(t, err)

	view, err := f.portfolios.Show(ctx, session, "")
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, "USD", view.BaseCurrency)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "BTC", view.Lines[0].CurrencyCode, "lines come out in code order")
	assert.True(t, view.Lines[0].BaseValue.Equal(decimal.NewFromInt(100000)))
	assert.True(t, view.Total.Equal(decimal.NewFromInt(150000)))
}

func TestShowPortfolioFailsOnMissingRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.registerAndLogin(t, "alice", "secret1")
	f.seedRates(t, btcUSD(50000))
	fund(t, f, session, "EUR", 100)

	_, err := f.portfolios.Show(ctx, session, "")
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable,
		"a partial total would be misleading, so the whole view fails")
}

func TestShowPortfolioValidatesBase(t *testing.T) {
	f := newFixture(t)
	session := f.registerAndLogin(t, "alice", "secret1")

	_, err := f.portfolios.Show(context.Background(), session, "dollars")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCurrencyCode)

	_, err = f.portfolios.Show(context.Background(), session, "ZZZ")
	assert.ErrorIs(t, err, apperrors.ErrCurrencyNotFound)

	_, err = f.portfolios.Show(context.Background(), nil, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAddCurrency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.registerAndLogin(t, "alice", "secret1")

	require.NoError(t, f.portfolios.AddCurrency(ctx, session, "ETH"))
	require.NoError(t, f.portfolios.AddCurrency(ctx, session, "ETH"), "idempotent")

	p, err := f.pfRepo.FindPortfolioByUserID(ctx, session.UserID)
	require.NoError(t, err)
	require.Contains(t, p.Wallets, "ETH")
	assert.True(t, p.Wallets["ETH"].Balance.IsZero())

	err = f.portfolios.AddCurrency(ctx, session, "DOGE")
	assert.ErrorIs(t, err, apperrors.ErrCurrencyNotFound)
}
