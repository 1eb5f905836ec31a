package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhub/internal/model"
	"taskhub/internal/service"
)

// TodoHandler handles todo endpoints.
type TodoHandler struct {
	todoService service.TodoService
}

// NewTodoHandler creates a new todo handler.
func NewTodoHandler(todoService service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// CreateTodoRequest represents a todo creation request.
type CreateTodoRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Contents string `json:"contents"`
	Weather  string `json:"weather" validate:"max=100"`
}

// ListTodos godoc
// @Summary List todos by weather and modification period
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param weather query string false "Exact weather"
// @Param start query string false "Modified at or after (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Modified at or before (RFC3339 or YYYY-MM-DD)"
// @Param page query int false "Page, 1-based"
// @Param size query int false "Page size"
// @Success 200 {object} model.Page[model.TodoSummary]
// @Failure 400 {object} errors.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) ListTodos(c echo.Context) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	start, end, err := timeRange(c)
	if err != nil {
		return err
	}

	result, err := h.todoService.ListTodos(c.Request().Context(), model.TodoListFilter{
		Weather:   optionalString(c, "weather"),
		StartTime: start,
		EndTime:   end,
	}, page)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// SearchTodos godoc
// @Summary Search todos with manager and comment counts
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param title query string false "Title contains"
// @Param start query string false "Created at or after (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Created at or before (RFC3339 or YYYY-MM-DD)"
// @Param nickname query string false "Some manager's nickname contains"
// @Param page query int false "Page, 1-based"
// @Param size query int false "Page size"
// @Success 200 {object} model.Page[model.TodoSearchSummary]
// @Failure 400 {object} errors.ErrorResponse
// @Router /todos/search [get]
func (h *TodoHandler) SearchTodos(c echo.Context) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	start, end, err := timeRange(c)
	if err != nil {
		return err
	}

	result, err := h.todoService.SearchTodos(c.Request().Context(), model.TodoSearchFilter{
		Title:           optionalString(c, "title"),
		StartTime:       start,
		EndTime:         end,
		ManagerNickname: optionalString(c, "nickname"),
	}, page)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// CreateTodo godoc
// @Summary Create a todo
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTodoRequest true "Todo data"
// @Success 201 {object} model.Todo
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) CreateTodo(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}
	var req CreateTodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo, err := h.todoService.CreateTodo(c.Request().Context(), user, service.CreateTodoInput{
		Title:    req.Title,
		Contents: req.Contents,
		Weather:  req.Weather,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, todo)
}

// GetTodo godoc
// @Summary Get a todo with its owner
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Success 200 {object} model.Todo
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [get]
func (h *TodoHandler) GetTodo(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	todo, err := h.todoService.GetTodo(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, todo)
}

// DeleteTodo godoc
// @Summary Delete a todo with its managers and comments
// @Tags todos
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.todoService.DeleteTodo(c.Request().Context(), user, id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
