package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/todo-api/internal/api/metrics"
	"github.com/taskhive/todo-api/internal/core/domain"
	"github.com/taskhive/todo-api/internal/core/ports"
)

// TodoHandler handles HTTP requests for todo operations. Every operation is
// scoped to the principal resolved by the auth middleware.
type TodoHandler struct {
	service ports.TodoService
}

func NewTodoHandler(service ports.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// List returns the caller's todos, filtered and sorted.
//
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        completed  query     bool    false  "Filter by completion"
// @Param        priority   query     string  false  "Filter by priority (low|medium|high)"
// @Param        sortBy     query     string  false  "Sort field (createdAt|updatedAt|dueDate|priority|title)"
// @Param        sortOrder  query     string  false  "asc or desc"
// @Success      200        {object}  Envelope
// @Failure      401        {object}  Envelope
// @Router       /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	input := ports.ListTodosInput{
		Priority:  domain.Priority(c.QueryParam("priority")),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}
	if raw := c.QueryParam("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err == nil {
			input.Completed = &completed
		}
	}

	todos, err := h.service.List(c.Request().Context(), user.ID, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ok("", toTodoListResponse(todos)))
}

// Get returns a single todo by id.
//
// @Summary      Get a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	todo, err := h.service.Get(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ok("", toTodoResponse(todo)))
}

// Create adds a new todo owned by the caller.
//
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTodoRequest  true  "Todo details"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Router       /todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toCreateInput(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Due date must be a valid date")
	}

	todo, err := h.service.Create(c.Request().Context(), user.ID, input)
	if err != nil {
		return err
	}
	metrics.TodosCreatedTotal.WithLabelValues(string(todo.Priority)).Inc()

	return c.JSON(http.StatusCreated, ok("Todo created successfully", toTodoResponse(todo)))
}

// Update applies a partial update to a todo. Absent fields stay unchanged.
//
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Todo id"
// @Param        body  body      updateTodoRequest  true  "Fields to update"
// @Success      200   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toUpdateInput(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Due date must be a valid date")
	}

	todo, err := h.service.Update(c.Request().Context(), user.ID, c.Param("id"), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ok("Todo updated successfully", toTodoResponse(todo)))
}

// Delete removes a todo.
//
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ok("Todo deleted successfully", nil))
}

// Toggle flips the completed flag.
//
// @Summary      Toggle todo completion
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /todos/{id}/toggle [patch]
func (h *TodoHandler) Toggle(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	todo, err := h.service.Toggle(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.TodosToggledTotal.WithLabelValues(strconv.FormatBool(todo.Completed)).Inc()

	message := "Todo marked as incomplete"
	if todo.Completed {
		message = "Todo marked as completed"
	}
	return c.JSON(http.StatusOK, ok(message, toTodoResponse(todo)))
}

// Stats returns the caller's aggregate counts.
//
// @Summary      Todo statistics
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Router       /todos/stats/summary [get]
func (h *TodoHandler) Stats(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	summary, err := h.service.Summary(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ok("", toSummaryResponse(summary)))
}
