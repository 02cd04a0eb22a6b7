package ports

import (
	"context"

	"github.com/taskhive/todo-api/internal/core/domain"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// TokenPair is an access/refresh token set issued together.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User   *domain.User
	Tokens TokenPair
}

// AuthService defines the authentication use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Refresh rotates the single active session: the presented refresh token
	// must match the stored one and is invalidated by the new pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Logout clears the stored refresh token, ending the active session.
	Logout(ctx context.Context, userID string) error
}
