package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/todo-api/internal/core/domain"
)

// UserContextKey is where the auth middleware stores the resolved principal.
const UserContextKey = "auth_user"

// currentUser extracts the principal injected by the auth middleware. Its
// absence means the middleware did not run for this route; reject rather
// than proceed without an owner.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(UserContextKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authorization token required")
	}
	return user, nil
}
