package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/apperr"
	"github.com/iliyamo/inventory-service/internal/service"
)

// dbTimeout bounds every store call made on behalf of a request.
const dbTimeout = 5 * time.Second

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.ErrBadRequest, "Invalid id")
	}
	return id, nil
}

// normalizer is implemented by request DTOs that clean up input before it is
// validated.
type normalizer interface {
	Normalize()
}

// bindAndValidate decodes the body (JSON or form, by Content-Type) into dst,
// normalizes it and runs the registered validator.
func bindAndValidate(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return apperr.New(apperr.ErrBadRequest, service.MsgInvalidPayload)
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return c.Validate(dst)
}
