package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
)

// updaterSourceName tags cache snapshots written by a refresh cycle, as
// opposed to a single source's name.
const updaterSourceName = "RatesUpdater"

// UpdaterService runs refresh cycles against the configured rate sources.
// Sources are iterated in their configured order; a failing source is
// skipped and logged, and only a cycle in which every source fails is an
// error. When two sources report the same pair in one cycle, the later one
// in iteration order wins.
type UpdaterService struct {
	sources     []ports.RateSource
	cacheRepo   ports.RateCacheRepository
	historyRepo ports.RateHistoryRepository
	logger      *slog.Logger
}

var _ ports.UpdaterSvc = (*UpdaterService)(nil)

func NewUpdaterService(sources []ports.RateSource, cacheRepo ports.RateCacheRepository, historyRepo ports.RateHistoryRepository, logger *slog.Logger) *UpdaterService {
	return &UpdaterService{
		sources:     sources,
		cacheRepo:   cacheRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// RunUpdate executes one refresh cycle. The filter selects a single source
// by name (case-insensitive); empty means all configured sources. Every
// successful source's raw observations go to the history log before the
// merged batch is applied to the cache.
func (s *UpdaterService) RunUpdate(ctx context.Context, sourceFilter string) (*dto.UpdateSummary, error) {
	selected := s.sources
	if sourceFilter != "" {
		selected = nil
		for _, src := range s.sources {
			if strings.EqualFold(src.Name(), sourceFilter) {
				selected = append(selected, src)
			}
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: unknown rate source %q", apperrors.ErrValidation, sourceFilter)
		}
	}

	startedAt := time.Now().UTC()
	var observations []domain.ExchangeRate
	failures := 0
	for _, src := range selected {
		rates, err := src.FetchRates(ctx)
		if err != nil {
			failures++
			s.logger.Warn("rate source failed, skipping",
				slog.String("source", src.Name()),
				slog.String("error", err.Error()))
			continue
		}
		if err := s.historyRepo.AppendHistory(ctx, src.Name(), rates); err != nil {
			return nil, err
		}
		s.logger.Info("rate source fetched",
			slog.String("source", src.Name()),
			slog.Int("observations", len(rates)))
		observations = append(observations, rates...)
	}
	if failures == len(selected) {
		return nil, fmt.Errorf("%w: all %d sources failed", apperrors.ErrRefreshFailed, len(selected))
	}

	cache, err := s.cacheRepo.LoadCache(ctx)
	if err != nil {
		return nil, err
	}
	cache.Update(updaterSourceName, startedAt, observations)
	if err := s.cacheRepo.SaveCache(ctx, cache); err != nil {
		return nil, err
	}

	summary := &dto.UpdateSummary{
		LastRefresh:  startedAt,
		RatesUpdated: len(observations),
		HasErrors:    failures > 0,
	}
	s.logger.Info("rates refreshed",
		slog.Int("rates_updated", summary.RatesUpdated),
		slog.Bool("has_errors", summary.HasErrors))
	return summary, nil
}
