package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is the explicit authentication artifact passed by the caller into
// every portfolio and trade operation. It is produced by login or by
// verifying a previously issued token; the core never reads ambient state.
type Session struct {
	UserID    int       `json:"userID"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TradeSide distinguishes buy from sell in a trade outcome.
type TradeSide string

const (
	Buy  TradeSide = "buy"
	Sell TradeSide = "sell"
)

// TradeResult reports a completed trade: the rate the trade was priced at,
// the counter-leg amount, and the resulting balances of both wallets.
type TradeResult struct {
	Side          TradeSide       `json:"side"`
	CurrencyCode  string          `json:"currencyCode"`
	BaseCurrency  string          `json:"baseCurrency"`
	Amount        decimal.Decimal `json:"amount"`
	Rate          float64         `json:"rate"`
	CounterAmount decimal.Decimal `json:"counterAmount"`
	Balance       decimal.Decimal `json:"balance"`
	BaseBalance   decimal.Decimal `json:"baseBalance"`
}

// PortfolioLine is one wallet's balance and its value in the base currency.
type PortfolioLine struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	BaseValue    decimal.Decimal `json:"baseValue"`
}

// PortfolioView is the per-wallet breakdown plus the total, all expressed in
// the base currency.
type PortfolioView struct {
	Username     string          `json:"username"`
	BaseCurrency string          `json:"baseCurrency"`
	Lines        []PortfolioLine `json:"lines"`
	Total        decimal.Decimal `json:"total"`
}

// RateInfo is a point-in-time rate lookup result.
type RateInfo struct {
	FromCurrency string    `json:"fromCurrency"`
	ToCurrency   string    `json:"toCurrency"`
	Rate         float64   `json:"rate"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RatesView is the full cache snapshot for display.
type RatesView struct {
	Source      string     `json:"source"`
	LastRefresh time.Time  `json:"lastRefresh"`
	Rates       []RateInfo `json:"rates"`
}

// CurrencyInfo describes one registry entry.
type CurrencyInfo struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Display string `json:"display"`
}

// UpdateSummary reports one rate-refresh cycle. HasErrors means at least one
// source failed and was skipped; the run itself still succeeded.
type UpdateSummary struct {
	LastRefresh  time.Time `json:"lastRefresh"`
	RatesUpdated int       `json:"ratesUpdated"`
	HasErrors    bool      `json:"hasErrors"`
}
