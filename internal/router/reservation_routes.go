package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-commerce-backend/internal/handler"
)

// RegisterReservations mounts the reservation API.  limit is the Redis
// token bucket; pass nil to register the routes unthrottled.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/api/reservations")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}
