package ports

import (
	"context"

	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
)

// RateSource is an external provider of rate observations. FetchRates either
// returns the observed rates or fails with one of the classified source
// errors (rate-limited, forbidden, unreachable, malformed); the updater
// treats every failure uniformly as "this source failed this cycle".
type RateSource interface {
	Name() string
	FetchRates(ctx context.Context) ([]domain.ExchangeRate, error)
}
