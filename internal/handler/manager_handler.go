package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhub/internal/service"
)

// ManagerHandler handles manager assignment endpoints.
type ManagerHandler struct {
	managerService service.ManagerService
}

// NewManagerHandler creates a new manager handler.
func NewManagerHandler(managerService service.ManagerService) *ManagerHandler {
	return &ManagerHandler{managerService: managerService}
}

// AssignManagerRequest names the user to assign.
type AssignManagerRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// AssignManager godoc
// @Summary Assign a manager to a todo
// @Description Only the owner may assign. Failed attempts are recorded in the audit log.
// @Tags managers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Param request body AssignManagerRequest true "Target user"
// @Success 201 {object} model.Manager
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /todos/{id}/managers [post]
func (h *ManagerHandler) AssignManager(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}
	todoID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req AssignManagerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	manager, err := h.managerService.AssignManager(c.Request().Context(), user, todoID, req.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, manager)
}

// ListManagers godoc
// @Summary List the managers of a todo
// @Tags managers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Success 200 {array} model.Manager
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id}/managers [get]
func (h *ManagerHandler) ListManagers(c echo.Context) error {
	todoID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	managers, err := h.managerService.ListManagers(c.Request().Context(), todoID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, managers)
}

// DeleteManager godoc
// @Summary Remove a manager from a todo
// @Tags managers
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Param managerId path int true "Manager ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id}/managers/{managerId} [delete]
func (h *ManagerHandler) DeleteManager(c echo.Context) error {
	user, err := requester(c)
	if err != nil {
		return err
	}
	todoID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	managerID, err := pathID(c, "managerId")
	if err != nil {
		return err
	}
	if err := h.managerService.DeleteManager(c.Request().Context(), user, todoID, managerID); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
