package domain

import (
	"fmt"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
)

// ExchangeRate is a single observation of a conversion rate for a directed
// currency pair.
type ExchangeRate struct {
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	Rate         float64   `json:"rate"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewExchangeRate builds a validated observation. The rate must be strictly
// positive; both codes must be syntactically well-formed.
func NewExchangeRate(from, to string, rate float64, updatedAt time.Time) (ExchangeRate, error) {
	if err := ValidateCode(from); err != nil {
		return ExchangeRate{}, err
	}
	if err := ValidateCode(to); err != nil {
		return ExchangeRate{}, err
	}
	if rate <= 0 {
		return ExchangeRate{}, fmt.Errorf("%w: rate %v for %s_%s", apperrors.ErrValidation, rate, from, to)
	}
	return ExchangeRate{FromCurrency: from, ToCurrency: to, Rate: rate, UpdatedAt: updatedAt}, nil
}

// IdentityRate is the degenerate same-currency rate 1.0, stamped now.
func IdentityRate(code string) ExchangeRate {
	return ExchangeRate{FromCurrency: code, ToCurrency: code, Rate: 1.0, UpdatedAt: time.Now().UTC()}
}

// Reciprocal returns the inverse-direction rate with currencies swapped and
// the observation timestamp preserved.
func (r ExchangeRate) Reciprocal() ExchangeRate {
	return ExchangeRate{
		FromCurrency: r.ToCurrency,
		ToCurrency:   r.FromCurrency,
		Rate:         1 / r.Rate,
		UpdatedAt:    r.UpdatedAt,
	}
}

// PairKey is the directed pair key used by the cache and the persisted form,
// e.g. "BTC_USD".
func (r ExchangeRate) PairKey() string {
	return r.FromCurrency + "_" + r.ToCurrency
}
