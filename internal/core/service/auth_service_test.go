package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/todo-api/internal/core/domain"
	"github.com/taskhive/todo-api/internal/core/ports"
)

type stubUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[created.ID] = created
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	public := cloneUser(u)
	public.PasswordHash = ""
	public.RefreshToken = ""
	return public, nil
}

func (r *stubUserRepo) FindByIDWithSecrets(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			public := cloneUser(u)
			public.PasswordHash = ""
			public.RefreshToken = ""
			return public, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailWithSecrets(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailOrUsername(_ context.Context, email, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetRefreshToken(_ context.Context, id, token string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *stubUserRepo) SwapRefreshToken(_ context.Context, id, old, next string) (bool, error) {
	u, ok := r.users[id]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	if u.RefreshToken != old {
		return false, nil
	}
	u.RefreshToken = next
	return true, nil
}

type stubThrottle struct {
	allowed bool
	resets  int
}

func (t *stubThrottle) Allow(context.Context, string) (bool, error) { return t.allowed, nil }
func (t *stubThrottle) Reset(context.Context, string) error         { t.resets++; return nil }

func newAuthService(repo ports.UserRepository, throttle LoginThrottle) *AuthService {
	tokens := NewTokenService("access-secret", "refresh-secret", time.Hour, time.Hour)
	return NewAuthService(repo, tokens, throttle, bcrypt.MinCost, zerolog.Nop())
}

func registerInput(username, email string) ports.RegisterInput {
	return ports.RegisterInput{Username: username, Email: email, Password: "password123"}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	result, err := svc.Register(context.Background(), registerInput("alice", "a@x.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.User.ID == "" {
		t.Fatalf("expected assigned user id")
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", result.Tokens)
	}

	stored := repo.users[result.User.ID]
	if stored.PasswordHash == "password123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if stored.RefreshToken != result.Tokens.RefreshToken {
		t.Fatalf("expected issued refresh token to be the stored session")
	}
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	result, err := svc.Register(context.Background(), registerInput("alice", "  Alice@X.Com "))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.User.Email != "alice@x.com" {
		t.Fatalf("expected lowercased email, got %q", result.User.Email)
	}
}

func TestAuthService_Register_EmailCollisionWinsTieBreak(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), registerInput("alice", "a@x.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Same email, different username.
	if _, err := svc.Register(context.Background(), registerInput("bob", "a@x.com")); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	// Same username, different email.
	if _, err := svc.Register(context.Background(), registerInput("alice", "b@x.com")); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	// Both collide: email wins.
	if _, err := svc.Register(context.Background(), registerInput("alice", "a@x.com")); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken when both collide, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	reg, err := svc.Register(context.Background(), registerInput("carol", "carol@x.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "carol@x.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.ID != reg.User.ID {
		t.Fatalf("expected user %s, got %s", reg.User.ID, result.User.ID)
	}
	if repo.users[result.User.ID].RefreshToken != result.Tokens.RefreshToken {
		t.Fatalf("expected login to replace the stored session")
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), registerInput("dave", "dave@x.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "dave@x.com", "wrongpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	// Unknown accounts produce the same error as bad passwords.
	if _, err := svc.Login(context.Background(), "ghost@x.com", "password123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	throttle := &stubThrottle{allowed: false}
	svc := newAuthService(repo, throttle)

	if _, err := svc.Login(context.Background(), "any@x.com", "password123"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ResetsThrottle(t *testing.T) {
	repo := newStubUserRepo()
	throttle := &stubThrottle{allowed: true}
	svc := newAuthService(repo, throttle)

	if _, err := svc.Register(context.Background(), registerInput("erin", "erin@x.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "erin@x.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected throttle reset after successful login, got %d", throttle.resets)
	}
}

func TestAuthService_Refresh_RotatesAndInvalidatesOld(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	reg, err := svc.Register(context.Background(), registerInput("frank", "frank@x.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	first := reg.Tokens.RefreshToken

	pair, err := svc.Refresh(context.Background(), first)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if pair.RefreshToken == first {
		t.Fatalf("expected a new refresh token")
	}
	if repo.users[reg.User.ID].RefreshToken != pair.RefreshToken {
		t.Fatalf("expected rotated token to be the stored session")
	}

	// The consumed token is single-use.
	if _, err := svc.Refresh(context.Background(), first); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got %v", err)
	}
}

func TestAuthService_Refresh_LoginInvalidatesPriorSession(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	reg, err := svc.Register(context.Background(), registerInput("grace", "grace@x.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "grace@x.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), reg.Tokens.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for pre-login token, got %v", err)
	}
}

func TestAuthService_Refresh_Garbage(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), nil)

	if _, err := svc.Refresh(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Refresh_Expired(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	reg, err := svc.Register(context.Background(), registerInput("heidi", "heidi@x.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  reg.User.ID,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("refresh-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), signed); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthService_Logout_EndsSession(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	reg, err := svc.Register(context.Background(), registerInput("ivan", "ivan@x.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.Logout(context.Background(), reg.User.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if repo.users[reg.User.ID].RefreshToken != "" {
		t.Fatalf("expected cleared refresh token")
	}

	// A syntactically valid, unexpired token no longer matches the store.
	if _, err := svc.Refresh(context.Background(), reg.Tokens.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
}
