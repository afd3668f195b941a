package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/youtube/v3"

	"github.com/iliyamo/live-commerce-backend/internal/middleware"
	"github.com/iliyamo/live-commerce-backend/internal/model"
	"github.com/iliyamo/live-commerce-backend/internal/service"
)

func do(e *echo.Echo, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/healthz", Health)
	rec := do(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		label  string
	}{
		{fmt.Errorf("%w: id 1", service.ErrStreamNotFound), http.StatusNotFound, "Stream not found"},
		{service.ErrChatNotFound, http.StatusNotFound, "Chat not found"},
		{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{service.ErrInvalidProduct, http.StatusNotFound, "Product not found"},
		{service.ErrValidation, http.StatusBadRequest, "Validation failed"},
		{service.ErrOutOfStock, http.StatusConflict, "Out of stock"},
		{service.ErrInvalidTransition, http.StatusConflict, "Conflict"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "Unauthorized"},
		{service.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{fmt.Errorf("%w: inventory down", service.ErrUpstream), http.StatusInternalServerError, "Upstream failure"},
		{service.ErrNotConfigured, http.StatusInternalServerError, "Configuration error"},
		{errors.New("disk full"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		status, label := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.label, label, tt.err.Error())
	}
}

func TestReservationHandler(t *testing.T) {
	flow := &fakeReservations{list: []model.Reservation{{ID: 4, CustomerName: "Old"}}}
	h := NewReservationHandler(flow)
	e := echo.New()
	e.POST("/api/reservations", h.Create)
	e.GET("/api/reservations", h.List)
	e.GET("/api/reservations/:id", h.Get)

	rec := do(e, http.MethodPost, "/api/reservations",
		`{"customerName":"Ann","customerEmail":"ann@example.com","productIds":["101","102"],"date":"2025-03-02","time":"14:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"101", "102"}, flow.got.ProductIDs)
	assert.Equal(t, "ann@example.com", flow.got.CustomerEmail)
	assert.Contains(t, rec.Body.String(), `"productIds":"101,102"`)
	assert.Contains(t, rec.Body.String(), `"customerName":"Ann"`)

	rec = do(e, http.MethodPost, "/api/reservations", `{"customerName":"Ann"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"productIds":null`)

	rec = do(e, http.MethodPost, "/api/reservations", `{"customerName":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	flow.err = fmt.Errorf("%w: product 7", service.ErrOutOfStock)
	rec = do(e, http.MethodPost, "/api/reservations", `{"customerName":"Ann","productIds":["7"]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Out of stock","message":"out of stock: product 7"}`, rec.Body.String())
	flow.err = nil

	rec = do(e, http.MethodGet, "/api/reservations", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"customerName":"Old"`)

	rec = do(e, http.MethodGet, "/api/reservations/4", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(e, http.MethodGet, "/api/reservations/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(e, http.MethodGet, "/api/reservations/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func newStreamEcho(flow *fakeStreams, tokens service.TokenGenerator) *echo.Echo {
	h := NewStreamHandler(flow, tokens)
	e := echo.New()
	e.POST("/api/streams", h.Create)
	e.GET("/api/streams", h.ListByHost)
	e.GET("/api/streams/live", h.ListLive)
	e.GET("/api/streams/:id", h.Get)
	e.POST("/api/streams/:id/start", h.Start)
	e.POST("/api/streams/:id/end", h.End)
	e.POST("/api/agora/token", h.AgoraToken)
	return e
}

func TestStreamHandler(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	publisher := "publisher-token"
	flow := &fakeStreams{sessions: map[uint64]*model.StreamSession{
		1: {ID: 1, Title: "Drop", HostID: "h1", Status: model.StreamStatusCreated, IsActive: true, StartTime: &start, AgoraToken: &publisher},
	}}
	e := newStreamEcho(flow, fakeTokenGen{})

	rec := do(e, http.MethodPost, "/api/streams", `{"title":"New","description":"d","hostId":"h2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "h2", flow.gotReq.HostID)
	assert.Contains(t, rec.Body.String(), `"status":"CREATED"`)

	rec = do(e, http.MethodGet, "/api/streams/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"startTime":"2025-03-01T10:00:00Z"`)
	assert.Contains(t, rec.Body.String(), `"endTime":null`)
	assert.NotContains(t, rec.Body.String(), "agoraToken")
	assert.NotContains(t, rec.Body.String(), publisher)

	rec = do(e, http.MethodGet, "/api/streams/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"Stream not found"`)

	rec = do(e, http.MethodGet, "/api/streams/live", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Drop"`)
	assert.NotContains(t, rec.Body.String(), publisher)

	rec = do(e, http.MethodGet, "/api/streams?hostId=h1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hostId":"h1"`)
	rec = do(e, http.MethodGet, "/api/streams", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/streams/1/start?uid=77", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint32(77), flow.gotUID)
	assert.JSONEq(t, `{"channelName":"stream-1","token":"tok","uid":"77","expireTimestamp":1700000000}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/streams/1/start", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint32(0), flow.gotUID)

	rec = do(e, http.MethodPost, "/api/streams/1/start?uid=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/streams/1/end", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ENDED"`)
	assert.Contains(t, rec.Body.String(), `"active":false`)

	rec = do(e, http.MethodPost, "/api/streams/abc/end", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamHandler_StartConflict(t *testing.T) {
	flow := &fakeStreams{err: fmt.Errorf("%w: stream 1 is ENDED", service.ErrInvalidTransition)}
	e := newStreamEcho(flow, fakeTokenGen{})
	rec := do(e, http.MethodPost, "/api/streams/1/start", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStreamHandler_AgoraToken(t *testing.T) {
	e := newStreamEcho(&fakeStreams{}, fakeTokenGen{})
	rec := do(e, http.MethodPost, "/api/agora/token?channel=room&uid=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"channelName":"room","token":"006abc","uid":"5","expireTimestamp":1700003600}`, rec.Body.String())

	e = newStreamEcho(&fakeStreams{}, fakeTokenGen{err: fmt.Errorf("%w: agora app id and certificate must be set", service.ErrNotConfigured)})
	rec = do(e, http.MethodPost, "/api/agora/token?channel=room", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"Configuration error"`)
}

func TestChatHandler(t *testing.T) {
	h := NewChatHandler(&fakeChat{})
	e := echo.New()
	e.POST("/api/streams/:id/chat", h.Send)
	e.GET("/api/streams/:id/chat", h.List)

	rec := do(e, http.MethodGet, "/api/streams/3/chat", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"Chat not found"`)

	rec = do(e, http.MethodPost, "/api/streams/3/chat", `{"sender":"ann","message":"hello","streamId":99}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"streamId":3`)

	rec = do(e, http.MethodPost, "/api/streams/3/chat", `{"sender":"","message":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/streams/3/chat", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"hello"`)
}

func TestAuthHandler(t *testing.T) {
	flow := &fakeAuth{}
	h := NewAuthHandler(flow)
	e := echo.New()
	e.POST("/api/auth/login", h.Login)
	e.POST("/api/auth/refresh", h.Refresh)
	e.POST("/api/auth/logout", h.Logout)

	rec := do(e, http.MethodPost, "/api/auth/login", `{"username":"ann","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann", flow.gotIdentifier)
	assert.Contains(t, rec.Body.String(), `"token":"access"`)
	assert.Contains(t, rec.Body.String(), `"refreshToken":"refresh"`)
	assert.Contains(t, rec.Body.String(), `"role":"ROLE_SELLER"`)

	rec = do(e, http.MethodPost, "/api/auth/login", `{"identifier":" ann@example.com ","email":"x","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann@example.com", flow.gotIdentifier)

	rec = do(e, http.MethodPost, "/api/auth/login", `{"email":"ann@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"refresh"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(e, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"stale"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/api/auth/logout", `{"refreshToken":"refresh"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "refresh", flow.revoked)
	rec = do(e, http.MethodPost, "/api/auth/logout", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&fakeAuth{})
	e := echo.New()
	e.POST("/api/auth/logout-all", h.LogoutAll)
	e.GET("/api/auth/me", h.Me, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxUserID, "1")
			c.Set(middleware.CtxRole, "ROLE_SELLER")
			c.Set(middleware.CtxEmail, "ann@example.com")
			return next(c)
		}
	})
	rec := do(e, http.MethodGet, "/api/auth/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"1","email":"ann@example.com","role":"ROLE_SELLER"}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/auth/logout-all", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_LogoutAll(t *testing.T) {
	flow := &fakeAuth{}
	h := NewAuthHandler(flow)
	e := echo.New()
	e.POST("/api/auth/logout-all", h.LogoutAll, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxUserID, "12")
			return next(c)
		}
	})
	rec := do(e, http.MethodPost, "/api/auth/logout-all", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint64(12), flow.revokedUser)
}

func newYouTubeEcho(flow *fakeYouTube) *echo.Echo {
	h := NewYouTubeHandler(flow, "http://localhost:3000/", time.Hour, false)
	e := echo.New()
	e.GET("/oauth2/authorization/google", h.Authorize)
	e.GET("/login/oauth2/code/google", h.Callback)
	e.POST("/logout", h.Logout)
	e.GET("/api/youtube/auth-status", h.AuthStatus)
	e.POST("/api/youtube/stream/create", h.CreateStream)
	e.POST("/api/youtube/stream/end", h.EndStream)
	e.GET("/api/youtube/video-details", h.VideoDetails)
	return e
}

func cookieFrom(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestYouTubeHandler_LoginFlow(t *testing.T) {
	flow := &fakeYouTube{sessions: map[string]bool{}}
	e := newYouTubeEcho(flow)

	rec := do(e, http.MethodGet, "/oauth2/authorization/google", "")
	require.Equal(t, http.StatusFound, rec.Code)
	state := cookieFrom(rec, stateCookie)
	require.NotNil(t, state)
	assert.Contains(t, rec.Header().Get("Location"), "state="+state.Value)

	rec = do(e, http.MethodGet, "/login/oauth2/code/google?code=c&state=wrong", "", state)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/login/oauth2/code/google?code=c&state="+state.Value, "", state)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:3000/", rec.Header().Get("Location"))
	sess := cookieFrom(rec, sessionCookie)
	require.NotNil(t, sess)
	assert.Equal(t, "sess-1", sess.Value)
	assert.True(t, sess.HttpOnly)

	rec = do(e, http.MethodGet, "/api/youtube/auth-status", "", sess)
	assert.JSONEq(t, `{"authenticated":true,"userName":"Ann","email":"ann@example.com"}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/logout", "", sess)
	assert.Equal(t, http.StatusFound, rec.Code)
	rec = do(e, http.MethodGet, "/api/youtube/auth-status", "", sess)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

func TestYouTubeHandler_Streams(t *testing.T) {
	flow := &fakeYouTube{sessions: map[string]bool{"s": true}, completed: true}
	e := newYouTubeEcho(flow)
	sess := &http.Cookie{Name: sessionCookie, Value: "s"}

	rec := do(e, http.MethodPost, "/api/youtube/stream/create", `{"title":"Drop","privacyStatus":"public"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/api/youtube/stream/create", `{"title":"Drop","privacyStatus":"public"}`, sess)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"youtubeViewerUrl":"https://www.youtube.com/watch?v=bc-1"`)

	rec = do(e, http.MethodPost, "/api/youtube/stream/end?broadcastId=bc-1", "", sess)
	assert.Equal(t, http.StatusOK, rec.Code)

	flow.completed = false
	rec = do(e, http.MethodPost, "/api/youtube/stream/end?broadcastId=bc-1", "", sess)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestYouTubeHandler_VideoDetails(t *testing.T) {
	flow := &fakeYouTube{sessions: map[string]bool{}}
	e := newYouTubeEcho(flow)

	rec := do(e, http.MethodGet, "/api/youtube/video-details?videoId=v1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Configuration error")

	flow.apiKey = true
	flow.video = &youtube.Video{Id: "v1", Snippet: &youtube.VideoSnippet{Title: "Drop"}}
	rec = do(e, http.MethodGet, "/api/youtube/video-details?videoId=v1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Drop"`)

	rec = do(e, http.MethodGet, "/api/youtube/video-details?videoId=v2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
