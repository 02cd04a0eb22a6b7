package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskhive/todo-api/internal/core/domain"
	"github.com/taskhive/todo-api/internal/core/ports"
)

const maxListLimit = 100

// TodoService implements the owner-scoped todo use cases. The ownerID on
// every call is the authenticated principal resolved by the auth guard;
// the repository enforces it on each query.
type TodoService struct {
	repo   ports.TodoRepository
	logger zerolog.Logger
}

func NewTodoService(repo ports.TodoRepository, logger zerolog.Logger) *TodoService {
	return &TodoService{repo: repo, logger: logger}
}

func (s *TodoService) List(ctx context.Context, ownerID string, input ports.ListTodosInput) ([]*domain.Todo, error) {
	filter := ports.TodoListFilter{
		Completed: input.Completed,
		Priority:  input.Priority,
		SortBy:    normalizeSortField(input.SortBy),
		SortOrder: input.SortOrder,
		Limit:     maxListLimit,
	}
	return s.repo.List(ctx, ownerID, filter)
}

func (s *TodoService) Get(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

func (s *TodoService) Create(ctx context.Context, ownerID string, input ports.CreateTodoInput) (*domain.Todo, error) {
	todo := &domain.Todo{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		OwnerID:     ownerID,
	}
	if todo.Priority == "" {
		todo.Priority = domain.PriorityMedium
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create todo")
		return nil, err
	}

	s.logger.Info().Str("todo_id", created.ID).Str("owner_id", ownerID).Str("priority", string(created.Priority)).Msg("todo created")
	return created, nil
}

func (s *TodoService) Update(ctx context.Context, ownerID, id string, input ports.UpdateTodoInput) (*domain.Todo, error) {
	update := ports.TodoUpdate{
		Completed:    input.Completed,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
		ClearDueDate: input.ClearDueDate,
	}
	if input.Title != nil {
		t := strings.TrimSpace(*input.Title)
		update.Title = &t
	}
	if input.Description != nil {
		d := strings.TrimSpace(*input.Description)
		update.Description = &d
	}
	return s.repo.Update(ctx, ownerID, id, update)
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info().Str("todo_id", id).Str("owner_id", ownerID).Msg("todo deleted")
	return nil
}

func (s *TodoService) Toggle(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	return s.repo.Toggle(ctx, ownerID, id)
}

func (s *TodoService) Summary(ctx context.Context, ownerID string) (*domain.TodoSummary, error) {
	return s.repo.Summary(ctx, ownerID)
}

// normalizeSortField whitelists sortable fields; anything unknown falls back
// to creation time.
func normalizeSortField(field string) string {
	switch field {
	case "createdAt", "updatedAt", "dueDate", "priority", "title":
		return field
	default:
		return "createdAt"
	}
}
