package dto

import "github.com/shopspring/decimal"

// RegisterRequest defines the data needed to register a new user.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=4"`
}

// LoginRequest defines the data needed to authenticate.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest defines the data needed to change a password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=4"`
}

// TradeRequest defines one buy or sell operation. BaseCurrency is optional;
// an empty value means the configured default base currency.
type TradeRequest struct {
	CurrencyCode string          `json:"currencyCode" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	BaseCurrency string          `json:"baseCurrency,omitempty"`
}
