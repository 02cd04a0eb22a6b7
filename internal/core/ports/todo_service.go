package ports

import (
	"context"
	"time"

	"github.com/taskhive/todo-api/internal/core/domain"
)

// CreateTodoInput carries the client-supplied fields for a new todo. The
// owner is never part of the input; it always comes from the authenticated
// principal.
type CreateTodoInput struct {
	Title       string
	Description string
	Priority    domain.Priority // empty defaults to medium
	DueDate     *time.Time
	Completed   *bool // nil defaults to false
}

// UpdateTodoInput carries a partial update; nil fields are left unchanged.
type UpdateTodoInput struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *domain.Priority
	DueDate      *time.Time
	ClearDueDate bool
}

// ListTodosInput carries the list query parameters.
type ListTodosInput struct {
	Completed *bool
	Priority  domain.Priority
	SortBy    string
	SortOrder string
}

// TodoService defines the owner-scoped todo use cases.
type TodoService interface {
	List(ctx context.Context, ownerID string, input ListTodosInput) ([]*domain.Todo, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	Create(ctx context.Context, ownerID string, input CreateTodoInput) (*domain.Todo, error)
	Update(ctx context.Context, ownerID, id string, input UpdateTodoInput) (*domain.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
	Toggle(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	Summary(ctx context.Context, ownerID string) (*domain.TodoSummary, error)
}
