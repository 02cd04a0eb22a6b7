package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/todo-api/internal/core/domain"
	"github.com/taskhive/todo-api/internal/core/ports"
)

type stubTodoService struct {
	listFn    func(ctx context.Context, ownerID string, input ports.ListTodosInput) ([]*domain.Todo, error)
	getFn     func(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	createFn  func(ctx context.Context, ownerID string, input ports.CreateTodoInput) (*domain.Todo, error)
	updateFn  func(ctx context.Context, ownerID, id string, input ports.UpdateTodoInput) (*domain.Todo, error)
	deleteFn  func(ctx context.Context, ownerID, id string) error
	toggleFn  func(ctx context.Context, ownerID, id string) (*domain.Todo, error)
	summaryFn func(ctx context.Context, ownerID string) (*domain.TodoSummary, error)
}

func (s *stubTodoService) List(ctx context.Context, ownerID string, input ports.ListTodosInput) ([]*domain.Todo, error) {
	return s.listFn(ctx, ownerID, input)
}

func (s *stubTodoService) Get(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *stubTodoService) Create(ctx context.Context, ownerID string, input ports.CreateTodoInput) (*domain.Todo, error) {
	return s.createFn(ctx, ownerID, input)
}

func (s *stubTodoService) Update(ctx context.Context, ownerID, id string, input ports.UpdateTodoInput) (*domain.Todo, error) {
	return s.updateFn(ctx, ownerID, id, input)
}

func (s *stubTodoService) Delete(ctx context.Context, ownerID, id string) error {
	return s.deleteFn(ctx, ownerID, id)
}

func (s *stubTodoService) Toggle(ctx context.Context, ownerID, id string) (*domain.Todo, error) {
	return s.toggleFn(ctx, ownerID, id)
}

func (s *stubTodoService) Summary(ctx context.Context, ownerID string) (*domain.TodoSummary, error) {
	return s.summaryFn(ctx, ownerID)
}

func sampleTodo() *domain.Todo {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Todo{
		ID:        "todo_1",
		Title:     "Buy milk",
		Completed: false,
		Priority:  domain.PriorityMedium,
		OwnerID:   "user_1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func authedContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := jsonContext(t, method, target, body)
	c.Set(UserContextKey, &domain.User{ID: "user_1", Username: "alice"})
	return c, rec
}

func TestTodoHandler_List_ParsesQuery(t *testing.T) {
	var captured ports.ListTodosInput
	svc := &stubTodoService{
		listFn: func(_ context.Context, ownerID string, input ports.ListTodosInput) ([]*domain.Todo, error) {
			if ownerID != "user_1" {
				t.Fatalf("expected owner user_1, got %s", ownerID)
			}
			captured = input
			return []*domain.Todo{sampleTodo()}, nil
		},
	}
	h := NewTodoHandler(svc)

	c, rec := authedContext(t, http.MethodGet,
		"/todos?completed=true&priority=high&sortBy=dueDate&sortOrder=asc", "")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Completed == nil || !*captured.Completed {
		t.Fatalf("expected completed=true filter, got %+v", captured)
	}
	if captured.Priority != domain.PriorityHigh || captured.SortBy != "dueDate" || captured.SortOrder != "asc" {
		t.Fatalf("unexpected query parse: %+v", captured)
	}
}

func TestTodoHandler_List_IgnoresBadCompleted(t *testing.T) {
	svc := &stubTodoService{
		listFn: func(_ context.Context, _ string, input ports.ListTodosInput) ([]*domain.Todo, error) {
			if input.Completed != nil {
				t.Fatalf("expected unparseable completed to be dropped, got %v", *input.Completed)
			}
			return nil, nil
		},
	}
	h := NewTodoHandler(svc)

	c, _ := authedContext(t, http.MethodGet, "/todos?completed=maybe", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestTodoHandler_Create_Success(t *testing.T) {
	svc := &stubTodoService{
		createFn: func(_ context.Context, ownerID string, input ports.CreateTodoInput) (*domain.Todo, error) {
			if ownerID != "user_1" {
				t.Fatalf("expected owner user_1, got %s", ownerID)
			}
			if input.Title != "Buy milk" || input.Priority != domain.PriorityHigh {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.DueDate == nil || !input.DueDate.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected due date: %v", input.DueDate)
			}
			todo := sampleTodo()
			todo.Priority = domain.PriorityHigh
			return todo, nil
		},
	}
	h := NewTodoHandler(svc)

	c, rec := authedContext(t, http.MethodPost, "/todos",
		`{"title":"Buy milk","priority":"high","dueDate":"2025-07-01"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Message != "Todo created successfully" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestTodoHandler_Create_RejectsBlankTitle(t *testing.T) {
	h := NewTodoHandler(&stubTodoService{})

	c, _ := authedContext(t, http.MethodPost, "/todos", `{"title":"   "}`)

	err := h.Create(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "title" {
		t.Fatalf("expected title violation, got %+v", ve.Fields)
	}
}

func TestTodoHandler_Update_ClearsDueDate(t *testing.T) {
	svc := &stubTodoService{
		updateFn: func(_ context.Context, _, id string, input ports.UpdateTodoInput) (*domain.Todo, error) {
			if id != "todo_1" {
				t.Fatalf("expected todo_1, got %s", id)
			}
			if !input.ClearDueDate || input.DueDate != nil {
				t.Fatalf("expected empty dueDate to clear, got %+v", input)
			}
			if input.Title != nil || input.Completed != nil {
				t.Fatalf("expected absent fields to stay nil, got %+v", input)
			}
			return sampleTodo(), nil
		},
	}
	h := NewTodoHandler(svc)

	c, rec := authedContext(t, http.MethodPut, "/todos/todo_1", `{"dueDate":""}`)
	c.SetParamNames("id")
	c.SetParamValues("todo_1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Message != "Todo updated successfully" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestTodoHandler_Update_PassesThroughNotFound(t *testing.T) {
	svc := &stubTodoService{
		updateFn: func(context.Context, string, string, ports.UpdateTodoInput) (*domain.Todo, error) {
			return nil, domain.ErrTodoNotFound
		},
	}
	h := NewTodoHandler(svc)

	c, _ := authedContext(t, http.MethodPut, "/todos/missing", `{"completed":true}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Update(c); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoHandler_Delete_Success(t *testing.T) {
	var deleted string
	svc := &stubTodoService{
		deleteFn: func(_ context.Context, _, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewTodoHandler(svc)

	c, rec := authedContext(t, http.MethodDelete, "/todos/todo_1", "")
	c.SetParamNames("id")
	c.SetParamValues("todo_1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "todo_1" {
		t.Fatalf("expected delete of todo_1, got %q", deleted)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Message != "Todo deleted successfully" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestTodoHandler_Toggle_Messages(t *testing.T) {
	cases := []struct {
		completed bool
		message   string
	}{
		{true, "Todo marked as completed"},
		{false, "Todo marked as incomplete"},
	}

	for _, tc := range cases {
		svc := &stubTodoService{
			toggleFn: func(context.Context, string, string) (*domain.Todo, error) {
				todo := sampleTodo()
				todo.Completed = tc.completed
				return todo, nil
			},
		}
		h := NewTodoHandler(svc)

		c, rec := authedContext(t, http.MethodPatch, "/todos/todo_1/toggle", "")
		c.SetParamNames("id")
		c.SetParamValues("todo_1")

		if err := h.Toggle(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		env := decodeEnvelope(t, rec)
		if env.Message != tc.message {
			t.Fatalf("expected %q, got %q", tc.message, env.Message)
		}
	}
}

func TestTodoHandler_Stats(t *testing.T) {
	svc := &stubTodoService{
		summaryFn: func(_ context.Context, ownerID string) (*domain.TodoSummary, error) {
			if ownerID != "user_1" {
				t.Fatalf("expected owner user_1, got %s", ownerID)
			}
			return &domain.TodoSummary{Total: 3, Completed: 1, Pending: 2, HighPriority: 1, MediumPriority: 2}, nil
		},
	}
	h := NewTodoHandler(svc)

	c, rec := authedContext(t, http.MethodGet, "/todos/stats/summary", "")

	if err := h.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":3`) || !strings.Contains(rec.Body.String(), `"pending":2`) {
		t.Fatalf("unexpected summary body: %s", rec.Body.String())
	}
}

func TestTodoHandler_RequiresPrincipal(t *testing.T) {
	h := NewTodoHandler(&stubTodoService{})

	c, _ := jsonContext(t, http.MethodGet, "/todos", "")

	err := h.List(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
