package router // package router defines how HTTP routes are registered for each service

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-commerce-backend/internal/handler"
	"github.com/iliyamo/live-commerce-backend/internal/middleware"
)

// RegisterRoutes registers routes shared by every service.  At the moment
// it only exposes the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login endpoints.  Login, refresh and logout
// work without an access token; /api/auth/me requires one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	jwt := middleware.JWTAuth(jwtSecret)
	g.GET("/me", a.Me, jwt)
	g.POST("/logout-all", a.LogoutAll, jwt)
}
