package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-commerce-backend/internal/handler"
)

// RegisterYouTube mounts the Google login round trip and the YouTube
// live API.  The login paths keep the URLs registered in the Google
// console.
func RegisterYouTube(e *echo.Echo, h *handler.YouTubeHandler) {
	e.GET("/oauth2/authorization/google", h.Authorize)
	e.GET("/login/oauth2/code/google", h.Callback)
	e.POST("/logout", h.Logout)

	g := e.Group("/api/youtube")
	g.GET("/auth-status", h.AuthStatus)
	g.POST("/stream/create", h.CreateStream)
	g.POST("/stream/end", h.EndStream)
	g.GET("/video-details", h.VideoDetails)
}
