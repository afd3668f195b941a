package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-commerce-backend/internal/model"
)

// ChatFlow is implemented by *service.ChatService.
type ChatFlow interface {
	SendMessage(ctx context.Context, streamID uint64, sender, message string) (*model.ChatMessage, error)
	ListMessages(ctx context.Context, streamID uint64) ([]model.ChatMessage, error)
}

type ChatHandler struct {
	Chat ChatFlow
}

func NewChatHandler(chat ChatFlow) *ChatHandler { return &ChatHandler{Chat: chat} }

type chatMessageRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// Send handles POST /api/streams/:id/chat.  The stream id comes from
// the path; any streamId in the body is ignored.
func (h *ChatHandler) Send(c echo.Context) error {
	id, ok := streamID(c, "id")
	if !ok {
		return badRequest(c, "invalid stream id")
	}
	var req chatMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Chat.SendMessage(ctx, id, req.Sender, req.Message)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toChatMessageResponse(m))
}

// List handles GET /api/streams/:id/chat.
func (h *ChatHandler) List(c echo.Context) error {
	id, ok := streamID(c, "id")
	if !ok {
		return badRequest(c, "invalid stream id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msgs, err := h.Chat.ListMessages(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]chatMessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, toChatMessageResponse(&msgs[i]))
	}
	return c.JSON(http.StatusOK, out)
}
