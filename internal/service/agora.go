package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/AgoraIO-Community/go-tokenbuilder/rtctokenbuilder"

	"github.com/iliyamo/live-commerce-backend/internal/config"
)

// RTCToken is a publisher token for one channel and uid.
type RTCToken struct {
	Channel   string    `json:"channel"`
	UID       uint32    `json:"uid"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenGenerator issues RTC tokens.  *AgoraService satisfies it.
type TokenGenerator interface {
	GenerateToken(channel string, uid uint32) (RTCToken, error)
}

// AgoraService signs Agora RTC tokens with the configured app credentials.
type AgoraService struct {
	cfg config.AgoraConfig
	now func() time.Time
}

func NewAgoraService(cfg config.AgoraConfig) *AgoraService {
	if cfg.TokenExpiry <= 0 {
		cfg.TokenExpiry = time.Hour
	}
	return &AgoraService{cfg: cfg, now: time.Now}
}

// GenerateToken returns a publisher-role token valid for the configured
// expiry.  uid 0 lets any user join with the token.
func (s *AgoraService) GenerateToken(channel string, uid uint32) (RTCToken, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return RTCToken{}, fmt.Errorf("%w: channel is required", ErrValidation)
	}
	if s.cfg.AppID == "" || s.cfg.AppCertificate == "" {
		return RTCToken{}, fmt.Errorf("%w: agora app id and certificate must be set", ErrNotConfigured)
	}

	expiresAt := s.now().Add(s.cfg.TokenExpiry).UTC().Truncate(time.Second)
	token, err := rtctokenbuilder.BuildTokenWithUID(
		s.cfg.AppID, s.cfg.AppCertificate, channel, uid,
		rtctokenbuilder.RolePublisher, uint32(expiresAt.Unix()),
	)
	if err != nil {
		return RTCToken{}, fmt.Errorf("%w: agora token: %v", ErrUpstream, err)
	}
	return RTCToken{Channel: channel, UID: uid, Token: token, ExpiresAt: expiresAt}, nil
}
