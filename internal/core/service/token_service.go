package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/todo-api/internal/core/domain"
	"github.com/taskhive/todo-api/internal/core/ports"
)

// TokenService issues and verifies the two JWT kinds. Access tokens carry
// {id, email, username} and are short-lived; refresh tokens carry only the
// user id, are signed with a separate secret, and live longer. Secrets and
// TTLs are process configuration and never appear in the payload.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

type accessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type refreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

func (s *TokenService) IssueRefreshToken(user *domain.User) (string, error) {
	claims := refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: user.ID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

func (s *TokenService) VerifyAccess(token string) (*ports.AccessClaims, error) {
	claims := &accessClaims{}
	if err := s.parse(token, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return &ports.AccessClaims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	}, nil
}

func (s *TokenService) VerifyRefresh(token string) (string, error) {
	claims := &refreshClaims{}
	if err := s.parse(token, claims, s.refreshSecret); err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// parse verifies signature and expiry, mapping jwt errors onto the domain
// taxonomy: expired is reported distinctly from every other failure.
func (s *TokenService) parse(token string, claims jwt.Claims, secret []byte) error {
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.ErrTokenExpired
		}
		return domain.ErrInvalidToken
	}
	if !tkn.Valid {
		return domain.ErrInvalidToken
	}
	return nil
}
