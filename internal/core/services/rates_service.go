package services

import (
	"context"
	"log/slog"

	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

// RatesService answers rate and currency lookups from the cached snapshot.
// It never issues network calls; refreshing the data is the updater's job.
type RatesService struct {
	rateRepo ports.RateCacheRepository
	logger   *slog.Logger
}

var _ ports.RatesSvc = (*RatesService)(nil)

func NewRatesService(rateRepo ports.RateCacheRepository, logger *slog.Logger) *RatesService {
	return &RatesService{rateRepo: rateRepo, logger: logger}
}

func (s *RatesService) GetRate(ctx context.Context, from, to string) (*dto.RateInfo, error) {
	cache, err := s.rateRepo.LoadCache(ctx)
	if err != nil {
		return nil, err
	}
	rate, err := cache.GetRate(from, to)
	if err != nil {
		return nil, err
	}
	return &dto.RateInfo{
		FromCurrency: rate.FromCurrency,
		ToCurrency:   rate.ToCurrency,
		Rate:         rate.Rate,
		UpdatedAt:    rate.UpdatedAt,
	}, nil
}

func (s *RatesService) ListRates(ctx context.Context) (*dto.RatesView, error) {
	cache, err := s.rateRepo.LoadCache(ctx)
	if err != nil {
		return nil, err
	}
	view := &dto.RatesView{
		Source:      cache.Source(),
		LastRefresh: cache.LastRefresh(),
	}
	for _, e := range cache.Entries() {
		view.Rates = append(view.Rates, dto.RateInfo{
			FromCurrency: e.FromCurrency,
			ToCurrency:   e.ToCurrency,
			Rate:         e.Rate,
			UpdatedAt:    e.UpdatedAt,
		})
	}
	return view, nil
}

func (s *RatesService) ListCurrencies(ctx context.Context) []dto.CurrencyInfo {
	currencies := domain.ListCurrencies()
	out := make([]dto.CurrencyInfo, len(currencies))
	for i, c := range currencies {
		out[i] = dto.CurrencyInfo{
			Code:    c.Code,
			Name:    c.Name,
			Kind:    string(c.Kind),
			Display: c.DisplayInfo(),
		}
	}
	return out
}
