package ratesource

import (
	"context"
	"fmt"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
)

// Throttled wraps a source with a local outbound request quota, so repeated
// update runs cannot burn through a provider's free tier. A fetch over quota
// fails locally with ErrSourceRateLimited without touching the network.
type Throttled struct {
	source  ports.RateSource
	limiter *limiter.Limiter
}

var _ ports.RateSource = (*Throttled)(nil)

// NewThrottled builds the wrapper from a formatted quota like "10-M"
// (ten requests per minute).
func NewThrottled(source ports.RateSource, formattedQuota string) (*Throttled, error) {
	rate, err := limiter.NewRateFromFormatted(formattedQuota)
	if err != nil {
		return nil, fmt.Errorf("invalid source request quota %q: %w", formattedQuota, err)
	}
	return &Throttled{source: source, limiter: limiter.New(memory.NewStore(), rate)}, nil
}

func (t *Throttled) Name() string { return t.source.Name() }

func (t *Throttled) FetchRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	lctx, err := t.limiter.Get(ctx, t.source.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceRateLimited, err)
	}
	if lctx.Reached {
		return nil, fmt.Errorf("%w: local quota for %s exhausted", apperrors.ErrSourceRateLimited, t.source.Name())
	}
	return t.source.FetchRates(ctx)
}
