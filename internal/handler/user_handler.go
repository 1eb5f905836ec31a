package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhub/internal/service"
)

// UserHandler bundles user HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ChangePasswordRequest carries the current and the new password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UpdateNicknameRequest carries the nickname to set.
type UpdateNicknameRequest struct {
	Nickname string `json:"nickname" validate:"required,max=50"`
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// SearchByNickname godoc
// @Summary Find a user by exact nickname
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param nickname query string true "Nickname"
// @Success 200 {object} model.UserNickname
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) SearchByNickname(c echo.Context) error {
	nickname := optionalString(c, "nickname")
	if nickname == nil {
		return badRequest("nickname is required", "VALIDATION_ERROR")
	}
	result, err := h.svc.SearchByNickname(c.Request().Context(), *nickname)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags users
// @Accept json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.svc.ChangePassword(c.Request().Context(), user, req.OldPassword, req.NewPassword); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateNickname godoc
// @Summary Set the current user's nickname (once)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateNicknameRequest true "Nickname"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/nickname [patch]
func (h *UserHandler) UpdateNickname(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}
	var req UpdateNicknameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.svc.UpdateNickname(c.Request().Context(), user, req.Nickname)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, updated)
}
