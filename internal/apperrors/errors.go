package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// User-input errors. These are recoverable: they are reported to the caller
// with a specific message and never change persisted state.

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidCurrencyCode indicates a currency code that is not 2-5 uppercase letters.
var ErrInvalidCurrencyCode = errors.New("invalid currency code")

// ErrCurrencyNotFound indicates a well-formed code that is unknown to the registry.
var ErrCurrencyNotFound = errors.New("currency not found")

// ErrInvalidAmount indicates a non-positive amount.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// ErrInsufficientFunds indicates a withdrawal larger than the wallet balance.
// The concrete error carries the currency and the amounts; see InsufficientFundsError.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrWalletNotFound indicates the user has never held the requested currency.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrUsernameTaken indicates an attempt to register an existing username.
var ErrUsernameTaken = errors.New("username already taken")

// ErrUserNotFound indicates a login attempt for an unknown username.
var ErrUserNotFound = errors.New("user not found")

// ErrWrongPassword indicates a failed password check.
var ErrWrongPassword = errors.New("incorrect password")

// ErrUnauthorized indicates a missing or invalid session.
var ErrUnauthorized = errors.New("not authenticated")

// Rate errors.

// ErrRateUnavailable indicates the pair was never observed by the cache.
// Retrying after a rates update may succeed.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrRefreshFailed indicates that every configured rate source failed in one
// update cycle, so nothing could be refreshed.
var ErrRefreshFailed = errors.New("could not refresh exchange rates")

// Classified upstream source errors. The updater treats all of them uniformly
// as "this source failed this cycle".

// ErrSourceRateLimited indicates the source's request quota was reached.
var ErrSourceRateLimited = errors.New("rate source request limit reached")

// ErrSourceForbidden indicates the source denied access (key, subscription).
var ErrSourceForbidden = errors.New("rate source access denied")

// ErrSourceUnreachable indicates a network-level failure reaching the source.
var ErrSourceUnreachable = errors.New("rate source unreachable")

// ErrSourceMalformed indicates the source returned a response that could not be parsed.
var ErrSourceMalformed = errors.New("rate source returned a malformed response")

// Infrastructure errors. These are fatal for the current operation and must
// propagate; the original cause is preserved for logs via %w wrapping.

// ErrStorage indicates a persistence failure (write error, corrupt file).
// A missing file on load is not a storage error: it means "empty collection".
var ErrStorage = errors.New("storage failure")

// InsufficientFundsError carries the details of a rejected withdrawal.
// It matches ErrInsufficientFunds under errors.Is.
type InsufficientFundsError struct {
	CurrencyCode string
	Available    decimal.Decimal
	Required     decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s %s, required %s %s",
		e.Available.StringFixed(2), e.CurrencyCode, e.Required.StringFixed(2), e.CurrencyCode)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
