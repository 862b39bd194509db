// Package router builds the echo instance and registers every route with its
// access gate.
package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/inventory-service/internal/access"
	"github.com/iliyamo/inventory-service/internal/handler"
	"github.com/iliyamo/inventory-service/internal/middleware"
	"github.com/iliyamo/inventory-service/internal/model"
)

// Handlers groups the endpoint handlers.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Inventory *handler.InventoryHandler
}

// New returns an echo instance with the validator, the JSON error handler
// and the global middleware chain (request id, request log, panic recovery).
func New(log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	return e
}

// RegisterRoutes mounts the public, authenticated and admin routes.  limiter
// guards the credential endpoints; cache serves inventory reads and is purged
// by inventory writes.
func RegisterRoutes(e *echo.Echo, h Handlers, guard *access.Guard, limiter echo.MiddlewareFunc, cache *middleware.ResponseCache) {
	authn := middleware.Authenticate(guard)
	admin := middleware.RequireAdmin(guard)

	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)

	a := e.Group("/auth", limiter)
	a.POST("/register", h.Auth.Register)
	a.POST("/login", h.Auth.Login)

	u := e.Group("/users", authn)
	u.GET("/me", h.Auth.Me)
	u.GET("/:id", h.Users.GetUser)

	e.DELETE("/admin/delete-user/:id", h.Users.DeleteUser, authn, admin)
	e.POST("/admin-only", h.Users.AdminAction, authn, middleware.RequireRole(guard, model.RoleAdmin))

	inv := e.Group("/api/inventory")
	inv.GET("", h.Inventory.List, cache.Read())
	inv.GET("/:id", h.Inventory.Get, cache.Read())
	inv.POST("", h.Inventory.Create, authn, cache.Invalidate())
	inv.PUT("/:id", h.Inventory.Update, authn, cache.Invalidate())
	inv.DELETE("/:id", h.Inventory.Delete, authn, admin, cache.Invalidate())
}
