package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/inventory-service/internal/apperr"
)

const msgInternal = "Internal server error"

// ErrorHandler renders every error returned by a handler or middleware as
// {"detail": msg}.  Domain errors use their own message; echo's HTTP errors
// (unknown route, wrong method) keep theirs; anything else is logged and
// reported as a generic 500.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := apperr.Status(err), apperr.Message(err)
		var he *echo.HTTPError
		switch {
		case msg != "":
		case errors.As(err, &he):
			status, msg = he.Code, fmt.Sprint(he.Message)
		default:
			status, msg = http.StatusInternalServerError, msgInternal
			log.Error("unhandled error",
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		if status == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"detail": msg})
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}
