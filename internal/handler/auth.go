package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-commerce-backend/internal/middleware"
	"github.com/iliyamo/live-commerce-backend/internal/service"
)

// AuthFlow is implemented by *service.AuthService.
type AuthFlow interface {
	Login(ctx context.Context, identifier, password string) (*service.AuthResult, error)
	Refresh(ctx context.Context, raw string) (*service.AuthResult, error)
	Logout(ctx context.Context, raw string) error
	LogoutAll(ctx context.Context, userID uint64) error
}

type AuthHandler struct {
	Auth AuthFlow
}

func NewAuthHandler(auth AuthFlow) *AuthHandler { return &AuthHandler{Auth: auth} }

// loginReq accepts the identifier under any of the names older clients used.
type loginReq struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

func (r loginReq) id() string {
	for _, v := range []string{r.Identifier, r.Email, r.Username} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type authResp struct {
	Token            string    `json:"token"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
}

func toAuthResp(r *service.AuthResult) authResp {
	return authResp{
		Token:            r.Access.Token,
		ExpiresAt:        r.Access.Exp,
		RefreshToken:     r.Refresh.Raw,
		RefreshExpiresAt: r.Refresh.Exp,
		Email:            r.Email,
		Role:             r.Role,
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.id(), req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(res))
}

// Refresh handles POST /api/auth/refresh and rotates the refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(res))
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.Logout(ctx, req.RefreshToken); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll handles POST /api/auth/logout-all behind JWTAuth.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	id, err := strconv.ParseUint(middleware.UserID(c), 10, 64)
	if err != nil {
		return writeError(c, service.ErrUnauthorized)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.LogoutAll(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /api/auth/me behind JWTAuth and echoes the token claims.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"id":    middleware.UserID(c),
		"email": c.Get(middleware.CtxEmail),
		"role":  c.Get(middleware.CtxRole),
	})
}
