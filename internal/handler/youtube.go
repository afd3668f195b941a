package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"google.golang.org/api/youtube/v3"

	"github.com/iliyamo/live-commerce-backend/internal/service"
)

const (
	stateCookie   = "oauth_state"
	sessionCookie = "YT_SESSION"
)

// YouTubeFlow is implemented by *service.YouTubeService.
type YouTubeFlow interface {
	AuthCodeURL(state string) (string, error)
	CompleteLogin(ctx context.Context, code string) (string, error)
	Logout(ctx context.Context, sessionID string) error
	Status(ctx context.Context, sessionID string) service.AuthStatus
	CreateLiveStream(ctx context.Context, sessionID string, req service.YouTubeStreamRequest) (*service.StreamDetails, error)
	EndLiveBroadcast(ctx context.Context, sessionID, broadcastID string) (bool, error)
	VideoDetails(ctx context.Context, videoID string) (*youtube.Video, error)
}

type YouTubeHandler struct {
	YouTube     YouTubeFlow
	FrontendURL string
	SessionTTL  time.Duration
	Secure      bool // mark cookies Secure outside local development
}

func NewYouTubeHandler(yt YouTubeFlow, frontendURL string, sessionTTL time.Duration, secure bool) *YouTubeHandler {
	return &YouTubeHandler{YouTube: yt, FrontendURL: frontendURL, SessionTTL: sessionTTL, Secure: secure}
}

// Authorize handles GET /oauth2/authorization/google.
func (h *YouTubeHandler) Authorize(c echo.Context) error {
	state := uuid.NewString()
	url, err := h.YouTube.AuthCodeURL(state)
	if err != nil {
		return writeError(c, err)
	}
	c.SetCookie(h.cookie(stateCookie, state, 10*time.Minute))
	return c.Redirect(http.StatusFound, url)
}

// Callback handles GET /login/oauth2/code/google.
func (h *YouTubeHandler) Callback(c echo.Context) error {
	if e := c.QueryParam("error"); e != "" {
		return badRequest(c, "authorization failed: "+e)
	}
	st, err := c.Cookie(stateCookie)
	if err != nil || st.Value == "" || st.Value != c.QueryParam("state") {
		return badRequest(c, "oauth state mismatch")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	id, err := h.YouTube.CompleteLogin(ctx, c.QueryParam("code"))
	if err != nil {
		return writeError(c, err)
	}
	c.SetCookie(h.cookie(stateCookie, "", -1))
	c.SetCookie(h.cookie(sessionCookie, id, h.SessionTTL))
	return c.Redirect(http.StatusFound, h.FrontendURL)
}

// Logout handles POST /logout.
func (h *YouTubeHandler) Logout(c echo.Context) error {
	if err := h.YouTube.Logout(c.Request().Context(), h.session(c)); err != nil {
		c.Logger().Warnf("youtube logout: %v", err)
	}
	c.SetCookie(h.cookie(sessionCookie, "", -1))
	return c.Redirect(http.StatusFound, h.FrontendURL)
}

// AuthStatus handles GET /api/youtube/auth-status.
func (h *YouTubeHandler) AuthStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.YouTube.Status(c.Request().Context(), h.session(c)))
}

// CreateStream handles POST /api/youtube/stream/create.
func (h *YouTubeHandler) CreateStream(c echo.Context) error {
	var req service.YouTubeStreamRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	out, err := h.YouTube.CreateLiveStream(ctx, h.session(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// EndStream handles POST /api/youtube/stream/end?broadcastId=.
func (h *YouTubeHandler) EndStream(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	ok, err := h.YouTube.EndLiveBroadcast(ctx, h.session(c), c.QueryParam("broadcastId"))
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error", "message": "Failed to end live broadcast."})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Live broadcast successfully ended."})
}

// VideoDetails handles GET /api/youtube/video-details?videoId=.
func (h *YouTubeHandler) VideoDetails(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	v, err := h.YouTube.VideoDetails(ctx, c.QueryParam("videoId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *YouTubeHandler) session(c echo.Context) string {
	ck, err := c.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return ck.Value
}

// cookie builds an HttpOnly cookie; a negative ttl deletes it.
func (h *YouTubeHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		ck.MaxAge = -1
	} else {
		ck.MaxAge = int(ttl / time.Second)
	}
	return ck
}
