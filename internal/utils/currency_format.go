package utils

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a balance with two fractional digits, the way the
// interface layer presents money.
// Example: 50000 -> "50000.00", 0.5 -> "0.50".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatRate renders an exchange rate with enough precision for small
// reciprocal rates to stay meaningful.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'g', 10, 64)
}
