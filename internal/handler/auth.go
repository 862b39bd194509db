package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/apperr"
	"github.com/iliyamo/inventory-service/internal/middleware"
	"github.com/iliyamo/inventory-service/internal/model"
	"github.com/iliyamo/inventory-service/internal/service"
)

// AuthHandler serves registration, login and the caller's own profile.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// Register accepts JSON or form data and returns the new user.
func (h *AuthHandler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Auth.Register(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u.Response())
}

// Login takes the OAuth2 password form (username, password) and returns a
// bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return apperr.New(apperr.ErrBadRequest, service.MsgInvalidLogin)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	tok, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.TokenResponse{AccessToken: tok.Token, TokenType: "bearer"})
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c).Response())
}
