package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-commerce-backend/internal/handler"
	"github.com/iliyamo/live-commerce-backend/internal/middleware"
)

// StreamRoutes bundles what the stream service mounts.  Cache wraps the
// public reads; Invalidate wraps create, start and end and should drop
// the entries named by StreamCachePaths.  Both may be nil.
type StreamRoutes struct {
	Streams    *handler.StreamHandler
	Chat       *handler.ChatHandler
	JWTSecret  string
	Cache      echo.MiddlewareFunc
	Invalidate echo.MiddlewareFunc
}

// StreamCachePaths lists the cached reads a stream write makes stale: the
// live listing and, when the route carries one, the stream itself.
func StreamCachePaths(c echo.Context) []string {
	paths := []string{"/api/streams/live"}
	if id := c.Param("id"); id != "" {
		paths = append(paths, "/api/streams/"+id)
	}
	return paths
}

// RegisterStreams mounts stream sessions, chat and the Agora token
// endpoint.  Creating, starting and ending a stream is reserved for
// sellers and admins; everything else is public.
func RegisterStreams(e *echo.Echo, r StreamRoutes) {
	var cached []echo.MiddlewareFunc
	if r.Cache != nil {
		cached = append(cached, r.Cache)
	}

	g := e.Group("/api/streams")
	// /live is registered before /:id; echo prefers static segments anyway.
	g.GET("/live", r.Streams.ListLive, cached...)
	g.GET("/:id", r.Streams.Get, cached...)
	g.GET("", r.Streams.ListByHost)

	host := []echo.MiddlewareFunc{
		middleware.JWTAuth(r.JWTSecret),
		middleware.RequireRole("ROLE_SELLER", "ROLE_ADMIN"),
	}
	if r.Invalidate != nil {
		host = append(host, r.Invalidate)
	}
	g.POST("", r.Streams.Create, host...)
	g.POST("/:id/start", r.Streams.Start, host...)
	g.POST("/:id/end", r.Streams.End, host...)

	g.POST("/:id/chat", r.Chat.Send)
	g.GET("/:id/chat", r.Chat.List)

	e.POST("/api/agora/token", r.Streams.AgoraToken)
}
