package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/middleware"
	"github.com/iliyamo/inventory-service/internal/service"
)

// UserHandler serves user lookups and the admin endpoints.
type UserHandler struct {
	Auth *service.AuthService
}

func NewUserHandler(auth *service.AuthService) *UserHandler {
	return &UserHandler{Auth: auth}
}

// GetUser returns any user by id to an authenticated caller.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Auth.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u.Response())
}

// DeleteUser is admin only.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	admin := middleware.CurrentUser(c)
	if err := h.Auth.DeleteUser(ctx, id, admin); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("User with ID %d has been deleted successfully", id),
		"admin":   admin.Username,
	})
}

// AdminAction is a placeholder admin operation guarded by the admin role.
func (h *UserHandler) AdminAction(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Admin action performed",
		"admin":   middleware.CurrentUser(c).Username,
	})
}
