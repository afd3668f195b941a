package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/live-commerce-backend/internal/config"
	"github.com/iliyamo/live-commerce-backend/internal/model"
	"github.com/iliyamo/live-commerce-backend/internal/repository"
	"github.com/iliyamo/live-commerce-backend/internal/utils"
)

// RolePrefix is carried by every role claim issued at login.
const RolePrefix = "ROLE_"

// UserStore reads credential records.  *repository.UserRepo satisfies it.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// RefreshStore keeps hashed refresh tokens.  *repository.TokenRepo satisfies it.
type RefreshStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	Rotate(ctx context.Context, oldHash string, userID uint64, newHash string, exp time.Time) error
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AuthResult is returned by Login and Refresh.
type AuthResult struct {
	UserID  uint64
	Email   string
	Role    string
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

type AuthService struct {
	cfg    config.AuthConfig
	users  UserStore
	tokens RefreshStore
}

func NewAuthService(cfg config.AuthConfig, users UserStore, tokens RefreshStore) *AuthService {
	return &AuthService{cfg: cfg, users: users, tokens: tokens}
}

// NormalizeRole maps a stored role to its claim form.  Empty roles become
// ROLE_USER and the prefix is added only when missing.
func NormalizeRole(stored string) string {
	role := strings.ToUpper(strings.TrimSpace(stored))
	if role == "" {
		role = "USER"
	}
	if strings.HasPrefix(role, RolePrefix) {
		return role
	}
	return RolePrefix + role
}

// ResolveUser looks the identifier up as an email first and as a username
// second.
func (s *AuthService) ResolveUser(ctx context.Context, identifier string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrUserNotFound)
	}
	u, err := s.users.GetByEmail(ctx, identifier)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	u, err = s.users.GetByUsername(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, identifier)
	}
	return u, err
}

// Login verifies the password and issues an access/refresh pair.  Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", ErrValidation)
	}
	u, err := s.ResolveUser(ctx, identifier)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Refresh exchanges a live refresh token for a new pair.  The old token is
// revoked in the same transaction that stores the new one, so a token can
// be spent only once.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*AuthResult, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: refreshToken is required", ErrValidation)
	}
	hash := utils.HashRefreshRaw(raw)
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	res, err := s.mint(u)
	if err != nil {
		return nil, err
	}
	err = s.tokens.Rotate(ctx, hash, u.ID, utils.HashRefreshRaw(res.Refresh.Raw), res.Refresh.Exp)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return res, nil
}

// Logout revokes one refresh token.  Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: refreshToken is required", ErrValidation)
	}
	return s.tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw))
}

// LogoutAll revokes every refresh token of the user, signing out all
// devices.  Access tokens stay valid until they expire.
func (s *AuthService) LogoutAll(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return s.tokens.RevokeAllForUser(ctx, userID)
}

func (s *AuthService) issue(ctx context.Context, u *model.User) (*AuthResult, error) {
	res, err := s.mint(u)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(res.Refresh.Raw), res.Refresh.Exp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return res, nil
}

// mint signs an access token and draws a refresh token without storing it.
func (s *AuthService) mint(u *model.User) (*AuthResult, error) {
	role := NormalizeRole(u.Role)
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, role, u.Email, s.cfg.AccessTTLMin)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &AuthResult{UserID: u.ID, Email: u.Email, Role: role, Access: access, Refresh: refresh}, nil
}
