package handler

import "time"

type createTodoRequest struct {
	Title       string `json:"title"       validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate"     validate:"omitempty,iso8601"`
	Completed   *bool  `json:"completed"`
}

// updateTodoRequest carries a partial update: nil fields leave the record
// untouched, an empty dueDate string clears the due date.
type updateTodoRequest struct {
	Title       *string `json:"title"       validate:"omitnil,notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Priority    *string `json:"priority"    validate:"omitnil,oneof=low medium high"`
	DueDate     *string `json:"dueDate"     validate:"omitnil,omitempty,iso8601"`
	Completed   *bool   `json:"completed"`
}

type todoResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Owner       string     `json:"owner"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type summaryResponse struct {
	Total          int64 `json:"total"`
	Completed      int64 `json:"completed"`
	Pending        int64 `json:"pending"`
	HighPriority   int64 `json:"highPriority"`
	MediumPriority int64 `json:"mediumPriority"`
	LowPriority    int64 `json:"lowPriority"`
}
