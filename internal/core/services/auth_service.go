// Package services implements the application use cases on top of the
// domain model and the repository ports.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
	"github.com/valutatrade/valutatrade-hub/internal/platform/config"
	"github.com/valutatrade/valutatrade-hub/internal/utils"
)

// AuthService handles registration, login, session verification and
// password changes.
type AuthService struct {
	userRepo      ports.UserRepository
	portfolioRepo ports.PortfolioRepository
	cfg           *config.Config
	validate      *validator.Validate
	logger        *slog.Logger
}

var _ ports.AuthSvc = (*AuthService)(nil)

func NewAuthService(userRepo ports.UserRepository, portfolioRepo ports.PortfolioRepository, cfg *config.Config, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		portfolioRepo: portfolioRepo,
		cfg:           cfg,
		validate:      validator.New(),
		logger:        logger,
	}
}

// Register creates a user and their empty portfolio in one save sequence.
// User ids are assigned monotonically: one past the highest existing id.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (int, error) {
	if err := s.validate.Struct(req); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	nextID := 1
	for _, u := range users {
		if u.Username == req.Username {
			return 0, fmt.Errorf("%w: %q", apperrors.ErrUsernameTaken, req.Username)
		}
		if u.UserID >= nextID {
			nextID = u.UserID + 1
		}
	}

	salt, err := utils.GenerateSalt()
	if err != nil {
		return 0, fmt.Errorf("could not generate salt: %w", err)
	}
	user := domain.User{
		UserID:           nextID,
		Username:         req.Username,
		HashedPassword:   utils.HashPassword(req.Password, salt),
		Salt:             salt,
		RegistrationDate: time.Now().UTC(),
	}

	portfolios, err := s.portfolioRepo.ListPortfolios(ctx)
	if err != nil {
		return 0, err
	}
	portfolios = append(portfolios, domain.NewPortfolio(nextID))

	// Portfolios first: an orphaned portfolio is harmless, a user without
	// a portfolio is not.
	if err := s.portfolioRepo.SavePortfolios(ctx, portfolios); err != nil {
		return 0, err
	}
	if err := s.userRepo.SaveUsers(ctx, append(users, user)); err != nil {
		return 0, err
	}

	s.logger.Info("user registered",
		slog.Int("user_id", nextID),
		slog.String("username", req.Username))
	return nextID, nil
}

// Login verifies the password and mints a signed session token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.Session, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(req.Password, user.Salt, user.HashedPassword) {
		s.logger.Warn("failed login attempt", slog.String("username", req.Username))
		return nil, fmt.Errorf("%w for user %q", apperrors.ErrWrongPassword, req.Username)
	}

	token, expiresAt, err := utils.GenerateJWT(user.UserID, user.Username, s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTExpiryDuration)
	if err != nil {
		return nil, fmt.Errorf("could not mint session token: %w", err)
	}

	s.logger.Info("user logged in",
		slog.Int("user_id", user.UserID),
		slog.String("username", user.Username))
	return &dto.Session{
		UserID:    user.UserID,
		Username:  user.Username,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify turns a previously issued token back into an explicit session. The
// user must still exist; a token for a deleted user is not a session.
func (s *AuthService) Verify(ctx context.Context, token string) (*dto.Session, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	return &dto.Session{
		UserID:    user.UserID,
		Username:  user.Username,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ChangePassword re-salts and re-hashes after verifying the old password.
func (s *AuthService) ChangePassword(ctx context.Context, session *dto.Session, req dto.ChangePasswordRequest) error {
	if session == nil {
		return apperrors.ErrUnauthorized
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range users {
		if users[i].UserID == session.UserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: id %d", apperrors.ErrUserNotFound, session.UserID)
	}
	if !utils.CheckPassword(req.OldPassword, users[idx].Salt, users[idx].HashedPassword) {
		return apperrors.ErrWrongPassword
	}

	salt, err := utils.GenerateSalt()
	if err != nil {
		return fmt.Errorf("could not generate salt: %w", err)
	}
	users[idx].Salt = salt
	users[idx].HashedPassword = utils.HashPassword(req.NewPassword, salt)
	if err := s.userRepo.SaveUsers(ctx, users); err != nil {
		return err
	}

	s.logger.Info("password changed", slog.Int("user_id", session.UserID))
	return nil
}
