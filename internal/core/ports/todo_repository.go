package ports

import (
	"context"
	"time"

	"github.com/taskhive/todo-api/internal/core/domain"
)

// TodoListFilter carries the query parameters for listing todos. The owner
// is deliberately not part of the filter: it is a mandatory argument on
// every repository method so a call site cannot omit it.
type TodoListFilter struct {
	Completed *bool           // nil = not applied
	Priority  domain.Priority // empty = not applied
	SortBy    string          // createdAt, updatedAt, dueDate, priority, title
	SortOrder string          // asc or desc; desc by default
	Limit     int64           // capped at 100 by the service
}

// TodoUpdate describes a partial update. Nil fields are left untouched.
// ClearDueDate removes the due date regardless of DueDate.
type TodoUpdate struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *domain.Priority
	DueDate      *time.Time
	ClearDueDate bool
}

// TodoRepository defines persistence operations for todos. Every method is
// scoped to ownerID; a record belonging to another owner behaves exactly
// like a missing record (ErrTodoNotFound, no existence leakage).
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	FindByID(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	List(ctx context.Context, ownerID string, filter TodoListFilter) ([]*domain.Todo, error)
	Update(ctx context.Context, ownerID, id string, update TodoUpdate) (*domain.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
	// Toggle atomically negates the completed flag and returns the updated record.
	Toggle(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	// Summary aggregates counts over the owner's todos in a single pass.
	Summary(ctx context.Context, ownerID string) (*domain.TodoSummary, error)
}
