package middleware

import "github.com/labstack/echo/v4"

// principal names the caller for rate-limit keys and request logs: the
// username when Authenticate ran, otherwise "guest".
func principal(c echo.Context) string {
	if u := CurrentUser(c); u != nil {
		return u.Username
	}
	return "guest"
}
