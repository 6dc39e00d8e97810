package handler

import (
	"errors"
	"net/http"

	"notes-service/internal/apperr"

	"github.com/labstack/echo/v4"
)

// httpError maps a typed application error onto the response contract:
// Unauthenticated 401, Forbidden 403, NotFound 404, InvalidRequest
// 400, everything else 500 with a generic body.
func httpError(c echo.Context, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return c.JSON(ae.HTTPStatus(), echo.Map{"error": ae.Message})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
