package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/access"
	"github.com/iliyamo/inventory-service/internal/model"
)

// Context keys set by Authenticate.
const (
	userKey   = "user"
	accessKey = "access"
)

// Authenticate resolves the bearer token of every request through guard and
// stores the acting user under "user".  Failures are returned as errors so the
// HTTP error handler renders them (401 with WWW-Authenticate: Bearer).
func Authenticate(guard *access.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := guard.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err := r.Error(); err != nil {
				return err
			}
			c.Set(userKey, r.User)
			c.Set(accessKey, r)
			return next(c)
		}
	}
}

// RequireRole must be chained after Authenticate.  Role comparison is plain
// equality; an admin does not implicitly hold other roles.
func RequireRole(guard *access.Guard, role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r, ok := c.Get(accessKey).(access.Result)
			if !ok {
				r = access.Result{Status: access.Unauthenticated, Reason: access.ReasonMissingToken}
			}
			if err := guard.Authorize(r, role).Error(); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireAdmin is RequireRole for the admin role.
func RequireAdmin(guard *access.Guard) echo.MiddlewareFunc {
	return RequireRole(guard, model.RoleAdmin)
}

// CurrentUser returns the user stored by Authenticate, or nil on public routes.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(userKey).(*model.User)
	return u
}
