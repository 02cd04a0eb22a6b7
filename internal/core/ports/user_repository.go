package ports

import (
	"context"

	"github.com/taskhive/todo-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
//
// The plain Find* methods return users without PasswordHash and RefreshToken;
// the WithSecrets variants include them. Keeping secret retrieval behind a
// named method prevents accidental leakage through generic read paths.
type UserRepository interface {
	// Create inserts a new user. Unique indexes on email and username back
	// the duplicate errors; ErrEmailTaken wins when both collide.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDWithSecrets(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailWithSecrets(ctx context.Context, email string) (*domain.User, error)

	// FindByEmailOrUsername returns any existing user matching either value,
	// or ErrUserNotFound. Used for the registration pre-check.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)

	// SetRefreshToken unconditionally overwrites the stored refresh token.
	// An empty token clears the active session (logout).
	SetRefreshToken(ctx context.Context, id, token string) error

	// SwapRefreshToken replaces the stored refresh token only if it still
	// equals old (a compare-and-swap on the single session). It reports
	// whether the swap happened; under concurrent rotation of the same
	// stale token exactly one caller observes true.
	SwapRefreshToken(ctx context.Context, id, old, next string) (bool, error)
}
