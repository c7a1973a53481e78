package jsonfile

import (
	"context"
	"fmt"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
)

const usersFile = "users.json"

// userRecord is the on-disk shape of a user.
type userRecord struct {
	UserID           int       `json:"user_id"`
	Username         string    `json:"username"`
	HashedPassword   string    `json:"hashed_password"`
	Salt             string    `json:"salt"`
	RegistrationDate time.Time `json:"registration_date"`
}

// UserRepository persists users in users.json.
type UserRepository struct {
	store *Store
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	var records []userRecord
	if err := r.store.Load(usersFile, &records); err != nil {
		return nil, err
	}
	users := make([]domain.User, len(records))
	for i, rec := range records {
		users[i] = domain.User(rec)
	}
	return users, nil
}

func (r *UserRepository) SaveUsers(ctx context.Context, users []domain.User) error {
	records := make([]userRecord, len(users))
	for i, u := range users {
		records[i] = userRecord(u)
	}
	return r.store.Save(usersFile, records, true)
}

func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", apperrors.ErrUserNotFound, username)
}

func (r *UserRepository) FindUserByID(ctx context.Context, userID int) (*domain.User, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", apperrors.ErrUserNotFound, userID)
}
