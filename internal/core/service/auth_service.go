package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/todo-api/internal/core/domain"
	"github.com/taskhive/todo-api/internal/core/ports"
)

// LoginThrottle bounds failed login attempts per email (Redis-backed in
// production). A nil throttle disables the check.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

// AuthService implements registration, login and the refresh-token
// lifecycle. One refresh token is active per account: login and refresh
// overwrite it, logout clears it, and a stored-token mismatch rejects a
// syntactically valid refresh JWT.
type AuthService struct {
	users      ports.UserRepository
	tokens     ports.TokenService
	throttle   LoginThrottle
	bcryptCost int
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, throttle LoginThrottle, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		throttle:   throttle,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	// Pre-check both unique fields in one query so the email collision is
	// always the one reported when both are taken. The unique indexes still
	// back this under concurrent registration.
	existing, err := s.users.FindByEmailOrUsername(ctx, email, username)
	if err != nil && err != domain.ErrUserNotFound {
		return nil, err
	}
	if existing != nil {
		if existing.Email == email {
			return nil, domain.ErrEmailTaken
		}
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmailWithSecrets(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return result, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByIDWithSecrets(ctx, userID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	// A valid, unexpired token that is not the stored one has been rotated
	// away or cleared by logout. Reject it.
	if user.RefreshToken != refreshToken {
		return nil, domain.ErrInvalidToken
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	// Compare-and-swap on the stored token: of two concurrent rotations of
	// the same stale token, exactly one lands.
	swapped, err := s.users.SwapRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, domain.ErrInvalidToken
	}

	s.logger.Info().Str("user_id", user.ID).Msg("session rotated")
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

func (s *AuthService) issuePair(user *domain.User) (*ports.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// startSession issues a fresh pair and makes the new refresh token the sole
// active one, invalidating any previous session.
func (s *AuthService) startSession(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, Tokens: *pair}, nil
}
