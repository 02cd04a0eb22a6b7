package ports

import "github.com/taskhive/todo-api/internal/core/domain"

// AccessClaims is the identity carried by a verified access token.
type AccessClaims struct {
	UserID   string
	Email    string
	Username string
}

// TokenService mints and verifies the two JWT kinds. Verification failures
// are reported as domain.ErrTokenExpired for well-formed tokens past their
// expiry and domain.ErrInvalidToken for everything else, so callers can
// surface distinct messages.
type TokenService interface {
	IssueAccessToken(user *domain.User) (string, error)
	IssueRefreshToken(user *domain.User) (string, error)
	VerifyAccess(token string) (*AccessClaims, error)
	// VerifyRefresh returns the user id carried by a valid refresh token.
	VerifyRefresh(token string) (string, error)
}
