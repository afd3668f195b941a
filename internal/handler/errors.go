package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-commerce-backend/internal/service"
)

// writeError maps a service error onto a status code and the
// {"error": ..., "message": ...} body shared by every service.
func writeError(c echo.Context, err error) error {
	status, label := classify(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(status, echo.Map{"error": label, "message": err.Error()})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrStreamNotFound):
		return http.StatusNotFound, "Stream not found"
	case errors.Is(err, service.ErrChatNotFound):
		return http.StatusNotFound, "Chat not found"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrReservationNotFound):
		return http.StatusNotFound, "Reservation not found"
	case errors.Is(err, service.ErrVideoNotFound):
		return http.StatusNotFound, "Video not found"
	case errors.Is(err, service.ErrInvalidProduct):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "Validation failed"
	case errors.Is(err, service.ErrOutOfStock):
		return http.StatusConflict, "Out of stock"
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, "Conflict"
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, service.ErrUpstream):
		return http.StatusInternalServerError, "Upstream failure"
	case errors.Is(err, service.ErrNotConfigured):
		return http.StatusInternalServerError, "Configuration error"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

// badRequest is used for malformed bodies and path params, before any
// service is involved.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "Validation failed", "message": msg})
}
