package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-commerce-backend/internal/middleware"
	"github.com/iliyamo/live-commerce-backend/internal/model"
	"github.com/iliyamo/live-commerce-backend/internal/service"
)

// StreamFlow is implemented by *service.StreamService.
type StreamFlow interface {
	CreateStream(ctx context.Context, req service.CreateStreamRequest) (*model.StreamSession, error)
	StartStream(ctx context.Context, id uint64, uid uint32) (*service.StartedStream, error)
	EndStream(ctx context.Context, id uint64) (*model.StreamSession, error)
	GetStream(ctx context.Context, id uint64) (*model.StreamSession, error)
	ListActiveStreams(ctx context.Context) ([]model.StreamSession, error)
	ListHostStreams(ctx context.Context, hostID string) ([]model.StreamSession, error)
}

type StreamHandler struct {
	Streams StreamFlow
	Tokens  service.TokenGenerator
}

func NewStreamHandler(streams StreamFlow, tokens service.TokenGenerator) *StreamHandler {
	return &StreamHandler{Streams: streams, Tokens: tokens}
}

type createStreamRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	HostID      string `json:"hostId"`
}

// Create handles POST /api/streams.  When hostId is omitted the caller's
// JWT subject is used.
func (h *StreamHandler) Create(c echo.Context) error {
	var req createStreamRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.HostID) == "" {
		if uid := middleware.UserID(c); uid != "anon" {
			req.HostID = uid
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Streams.CreateStream(ctx, service.CreateStreamRequest{
		Title:       req.Title,
		Description: req.Description,
		HostID:      req.HostID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toStreamResponse(s))
}

// Start handles POST /api/streams/:id/start?uid=N.
func (h *StreamHandler) Start(c echo.Context) error {
	id, ok := streamID(c, "id")
	if !ok {
		return badRequest(c, "invalid stream id")
	}
	uid, ok := parseUID(c.QueryParam("uid"))
	if !ok {
		return badRequest(c, "uid must be an unsigned 32-bit integer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	started, err := h.Streams.StartStream(ctx, id, uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAgoraTokenResponse(started.Token))
}

// End handles POST /api/streams/:id/end.
func (h *StreamHandler) End(c echo.Context) error {
	id, ok := streamID(c, "id")
	if !ok {
		return badRequest(c, "invalid stream id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Streams.EndStream(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toStreamResponse(s))
}

// Get handles GET /api/streams/:id.
func (h *StreamHandler) Get(c echo.Context) error {
	id, ok := streamID(c, "id")
	if !ok {
		return badRequest(c, "invalid stream id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Streams.GetStream(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toStreamResponse(s))
}

// ListLive handles GET /api/streams/live.
func (h *StreamHandler) ListLive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Streams.ListActiveStreams(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toStreamList(list))
}

// ListByHost handles GET /api/streams?hostId=.
func (h *StreamHandler) ListByHost(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Streams.ListHostStreams(ctx, c.QueryParam("hostId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toStreamList(list))
}

// AgoraToken handles POST /api/agora/token?channel=&uid=.
func (h *StreamHandler) AgoraToken(c echo.Context) error {
	uid, ok := parseUID(c.QueryParam("uid"))
	if !ok {
		return badRequest(c, "uid must be an unsigned 32-bit integer")
	}
	tok, err := h.Tokens.GenerateToken(c.QueryParam("channel"), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAgoraTokenResponse(tok))
}

func streamID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// parseUID treats an empty value as uid 0.
func parseUID(raw string) (uint32, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}
