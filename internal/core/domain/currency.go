package domain

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
)

// CurrencyKind distinguishes fiat currencies from cryptocurrencies.
type CurrencyKind string

const (
	Fiat   CurrencyKind = "fiat"
	Crypto CurrencyKind = "crypto"
)

// Currency is immutable reference data describing a currency known to the
// system. Kind-specific metadata: IssuingCountry for fiat, Algorithm and
// MarketCap for crypto.
type Currency struct {
	Code           string       `json:"code"`
	Name           string       `json:"name"`
	Kind           CurrencyKind `json:"kind"`
	IssuingCountry string       `json:"issuingCountry,omitempty"`
	Algorithm      string       `json:"algorithm,omitempty"`
	MarketCap      float64      `json:"marketCap,omitempty"`
}

// DisplayInfo renders the currency the way the interface layer presents it.
func (c Currency) DisplayInfo() string {
	switch c.Kind {
	case Crypto:
		return fmt.Sprintf("[CRYPTO] %s — %s (Algo: %s, MCAP: %.2e)", c.Code, c.Name, c.Algorithm, c.MarketCap)
	default:
		return fmt.Sprintf("[FIAT] %s — %s (Issuing: %s)", c.Code, c.Name, c.IssuingCountry)
	}
}

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{2,5}$`)

// ValidateCode checks that a currency code is syntactically well-formed
// (2-5 uppercase letters). This check is independent of whether the code is
// known to the registry.
func ValidateCode(code string) error {
	if !currencyCodeRe.MatchString(code) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidCurrencyCode, code)
	}
	return nil
}

// currencyRegistry is the fixed set of currencies the system knows about.
// Unknown codes are a terminal lookup error, never silently defaulted.
var currencyRegistry = map[string]Currency{
	"USD": {Code: "USD", Name: "US Dollar", Kind: Fiat, IssuingCountry: "United States"},
	"EUR": {Code: "EUR", Name: "Euro", Kind: Fiat, IssuingCountry: "Eurozone"},
	"JPY": {Code: "JPY", Name: "Japanese Yen", Kind: Fiat, IssuingCountry: "Japan"},
	"GBP": {Code: "GBP", Name: "Pound Sterling", Kind: Fiat, IssuingCountry: "United Kingdom"},
	"RUB": {Code: "RUB", Name: "Russian ruble", Kind: Fiat, IssuingCountry: "Russia"},

	"BTC":  {Code: "BTC", Name: "Bitcoin", Kind: Crypto, Algorithm: "SHA-256 & ECDSA", MarketCap: 2.20e12},
	"ETH":  {Code: "ETH", Name: "Ethereum", Kind: Crypto, Algorithm: "Gasper", MarketCap: 4.71e11},
	"USDT": {Code: "USDT", Name: "Tether", Kind: Crypto, Algorithm: "Stablecoin", MarketCap: 1.83e11},
	"XRP":  {Code: "XRP", Name: "XRP (Ripple)", Kind: Crypto, Algorithm: "Ripple Protocol Consensus Algorithm", MarketCap: 1.53e11},
	"BNB":  {Code: "BNB", Name: "Binance Coin", Kind: Crypto, Algorithm: "Proof of Staked Authority", MarketCap: 1.53e11},
}

// GetCurrency looks up a currency by code in the fixed registry.
func GetCurrency(code string) (Currency, error) {
	c, ok := currencyRegistry[code]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", apperrors.ErrCurrencyNotFound, code)
	}
	return c, nil
}

// ListCurrencies returns every registered currency, sorted by code.
func ListCurrencies() []Currency {
	out := make([]Currency, 0, len(currencyRegistry))
	for _, c := range currencyRegistry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
