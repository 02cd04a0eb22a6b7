package handler

import (
	"time"

	"github.com/taskhive/todo-api/internal/core/domain"
	"github.com/taskhive/todo-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createTodoRequest) (ports.CreateTodoInput, error) {
	input := ports.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		Completed:   req.Completed,
	}
	if req.DueDate != "" {
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			return ports.CreateTodoInput{}, err
		}
		input.DueDate = &due
	}
	return input, nil
}

func toUpdateInput(req updateTodoRequest) (ports.UpdateTodoInput, error) {
	input := ports.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		input.Priority = &p
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			input.ClearDueDate = true
		} else {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				return ports.UpdateTodoInput{}, err
			}
			input.DueDate = &due
		}
	}
	return input, nil
}

// parseDueDate accepts a full RFC 3339 timestamp or a plain date. The
// validator has already vetted the format; the error path guards binds that
// bypassed validation.
func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// --- Domain → HTTP response ---

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Owner:       t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTodoListResponse(todos []*domain.Todo) []todoResponse {
	out := make([]todoResponse, len(todos))
	for i, t := range todos {
		out[i] = toTodoResponse(t)
	}
	return out
}

func toSummaryResponse(s *domain.TodoSummary) summaryResponse {
	return summaryResponse{
		Total:          s.Total,
		Completed:      s.Completed,
		Pending:        s.Pending,
		HighPriority:   s.HighPriority,
		MediumPriority: s.MediumPriority,
		LowPriority:    s.LowPriority,
	}
}
