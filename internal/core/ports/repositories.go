package ports

import (
	"context"

	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
)

// The storage model is full-collection read-modify-write: load the entire
// collection, mutate in memory, save the entire collection. There is at most
// one active process writer, so no finer-grained locking exists; the design
// does not tolerate multiple OS processes sharing the data files.

// UserRepository defines persistence operations for users.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	// SaveUsers replaces the whole collection atomically on disk.
	SaveUsers(ctx context.Context, users []domain.User) error
	// FindUserByUsername returns apperrors.ErrUserNotFound for unknown names.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByID(ctx context.Context, userID int) (*domain.User, error)
}

// PortfolioRepository defines persistence operations for portfolios.
type PortfolioRepository interface {
	ListPortfolios(ctx context.Context) ([]*domain.Portfolio, error)
	// SavePortfolios replaces the whole collection atomically on disk.
	SavePortfolios(ctx context.Context, portfolios []*domain.Portfolio) error
	FindPortfolioByUserID(ctx context.Context, userID int) (*domain.Portfolio, error)
}

// RateCacheRepository persists the exchange rate cache snapshot. Load returns
// an empty cache when no snapshot exists yet.
type RateCacheRepository interface {
	LoadCache(ctx context.Context) (*domain.RateCache, error)
	SaveCache(ctx context.Context, cache *domain.RateCache) error
}

// RateHistoryRepository appends raw observations to the immutable historical
// log. Losing the last entry on a crash is tolerable, so the log does not
// need the temp-file-then-rename write path.
type RateHistoryRepository interface {
	AppendHistory(ctx context.Context, source string, rates []domain.ExchangeRate) error
}
