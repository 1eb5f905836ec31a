package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhub/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest carries the comment text.
type CreateCommentRequest struct {
	Contents string `json:"contents" validate:"required"`
}

// CreateComment godoc
// @Summary Comment on a todo
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id}/comments [post]
func (h *CommentHandler) CreateComment(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}
	todoID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.CreateComment(c.Request().Context(), user, todoID, req.Contents)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListComments godoc
// @Summary List comments of a todo
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Success 200 {array} model.Comment
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id}/comments [get]
func (h *CommentHandler) ListComments(c echo.Context) error {
	todoID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	comments, err := h.commentService.ListComments(c.Request().Context(), todoID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, comments)
}
