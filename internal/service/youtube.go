package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/iliyamo/live-commerce-backend/internal/config"
)

const viewerURLPrefix = "https://www.youtube.com/watch?v="

// YouTubeStreamRequest describes the broadcast to create.
type YouTubeStreamRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	PrivacyStatus string `json:"privacyStatus"` // public, unlisted or private
}

// StreamDetails is returned after the stream and broadcast are bound.
type StreamDetails struct {
	BroadcastID      string `json:"broadcastId"`
	StreamID         string `json:"streamId"`
	IngestionAddress string `json:"ingestionAddress"`
	StreamName       string `json:"streamName"` // stream key for the encoder
	YouTubeViewerURL string `json:"youtubeViewerUrl"`
	Message          string `json:"message"`
	Success          bool   `json:"success"`
}

// AuthStatus reports whether the caller holds a YouTube session.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	UserName      string `json:"userName,omitempty"`
	Email         string `json:"email,omitempty"`
}

// YouTubeService drives the Google OAuth2 code flow and the YouTube Live
// API.  Broadcast creation is three sequential calls with no rollback: a
// failure after the first leaves the ingestion stream in place.
type YouTubeService struct {
	cfg      config.YouTubeConfig
	oauth    *oauth2.Config
	sessions SessionStore
	// extra client options, used to point the API clients elsewhere
	apiOptions []option.ClientOption
	now        func() time.Time
}

func NewYouTubeService(cfg config.YouTubeConfig, sessions SessionStore, opts ...option.ClientOption) *YouTubeService {
	return &YouTubeService{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				youtube.YoutubeScope,
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
		},
		sessions:   sessions,
		apiOptions: opts,
		now:        time.Now,
	}
}

// AuthCodeURL returns the Google consent URL carrying state.
func (s *YouTubeService) AuthCodeURL(state string) (string, error) {
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return "", fmt.Errorf("%w: youtube oauth client is not configured", ErrNotConfigured)
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// CompleteLogin exchanges the authorization code and stores the session.
// The returned id identifies the session in later calls.
func (s *YouTubeService) CompleteLogin(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: missing authorization code", ErrValidation)
	}
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %v", ErrUpstream, err)
	}
	sess := YouTubeSession{Token: tok}

	// profile is only used for auth-status; a failure here does not block login
	if info, err := s.userInfo(ctx, tok); err != nil {
		log.Warnf("youtube: userinfo lookup failed: %v", err)
	} else {
		sess.UserName, sess.Email = info.Name, info.Email
	}
	return s.sessions.Save(ctx, sess)
}

func (s *YouTubeService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Status never fails: store errors are logged and reported as unauthenticated.
func (s *YouTubeService) Status(ctx context.Context, sessionID string) AuthStatus {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrUnauthorized) {
			log.Warnf("youtube: session lookup failed: %v", err)
		}
		return AuthStatus{}
	}
	return AuthStatus{Authenticated: true, UserName: sess.UserName, Email: sess.Email}
}

// CreateLiveStream inserts an RTMP live stream, inserts a broadcast that
// auto-starts and auto-stops, and binds the two.
func (s *YouTubeService) CreateLiveStream(ctx context.Context, sessionID string, req YouTubeStreamRequest) (*StreamDetails, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	privacy := strings.ToLower(strings.TrimSpace(req.PrivacyStatus))
	if privacy == "" {
		privacy = "private"
	}
	yt, err := s.authorizedClient(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	stream, err := yt.LiveStreams.Insert([]string{"snippet", "cdn", "status"}, &youtube.LiveStream{
		Snippet: &youtube.LiveStreamSnippet{Title: req.Title, Description: req.Description},
		Cdn:     &youtube.CdnSettings{Format: "1080p", IngestionType: "rtmp"},
		Status:  &youtube.LiveStreamStatus{StreamStatus: "active"},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: insert live stream: %v", ErrUpstream, err)
	}
	log.Infof("youtube: live stream created: %s", stream.Id)

	broadcast, err := yt.LiveBroadcasts.Insert([]string{"snippet", "status", "contentDetails"}, &youtube.LiveBroadcast{
		Snippet: &youtube.LiveBroadcastSnippet{
			Title:              req.Title,
			Description:        req.Description,
			ScheduledStartTime: s.now().UTC().Format(time.RFC3339),
		},
		Status: &youtube.LiveBroadcastStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
		ContentDetails: &youtube.LiveBroadcastContentDetails{EnableAutoStart: true, EnableAutoStop: true},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: insert live broadcast: %v", ErrUpstream, err)
	}
	log.Infof("youtube: live broadcast created: %s", broadcast.Id)

	if _, err := yt.LiveBroadcasts.Bind(broadcast.Id, []string{"id", "snippet", "status"}).
		StreamId(stream.Id).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("%w: bind broadcast %s: %v", ErrUpstream, broadcast.Id, err)
	}
	log.Infof("youtube: stream %s bound to broadcast %s", stream.Id, broadcast.Id)

	out := &StreamDetails{
		BroadcastID:      broadcast.Id,
		StreamID:         stream.Id,
		YouTubeViewerURL: viewerURLPrefix + broadcast.Id,
		Message:          "Live stream created successfully!",
		Success:          true,
	}
	if stream.Cdn != nil && stream.Cdn.IngestionInfo != nil {
		out.IngestionAddress = stream.Cdn.IngestionInfo.IngestionAddress
		out.StreamName = stream.Cdn.IngestionInfo.StreamName
	}
	return out, nil
}

// EndLiveBroadcast transitions the broadcast to complete.  It reports
// false when the API accepted the call but the broadcast is in another
// lifecycle state.
func (s *YouTubeService) EndLiveBroadcast(ctx context.Context, sessionID, broadcastID string) (bool, error) {
	if strings.TrimSpace(broadcastID) == "" {
		return false, fmt.Errorf("%w: broadcastId is required", ErrValidation)
	}
	yt, err := s.authorizedClient(ctx, sessionID)
	if err != nil {
		return false, err
	}
	resp, err := yt.LiveBroadcasts.Transition("complete", broadcastID, []string{"status"}).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("%w: transition broadcast %s: %v", ErrUpstream, broadcastID, err)
	}
	status := ""
	if resp.Status != nil {
		status = resp.Status.LifeCycleStatus
	}
	if status != "complete" {
		log.Warnf("youtube: broadcast %s not complete after transition, status %q", broadcastID, status)
		return false, nil
	}
	log.Infof("youtube: broadcast %s transitioned to complete", broadcastID)
	return true, nil
}

// VideoDetails looks a public video up with the API key.
func (s *YouTubeService) VideoDetails(ctx context.Context, videoID string) (*youtube.Video, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: youtube api key is not set", ErrNotConfigured)
	}
	if strings.TrimSpace(videoID) == "" {
		return nil, fmt.Errorf("%w: videoId is required", ErrValidation)
	}
	opts := append([]option.ClientOption{option.WithAPIKey(s.cfg.APIKey)}, s.apiOptions...)
	yt, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: youtube client: %v", ErrUpstream, err)
	}
	resp, err := yt.Videos.List([]string{"snippet", "statistics", "liveStreamingDetails"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: list videos: %v", ErrUpstream, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}
	return resp.Items[0], nil
}

func (s *YouTubeService) authorizedClient(ctx context.Context, sessionID string) (*youtube.Service, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	opts := append([]option.ClientOption{option.WithTokenSource(s.oauth.TokenSource(ctx, sess.Token))}, s.apiOptions...)
	yt, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: youtube client: %v", ErrUpstream, err)
	}
	return yt, nil
}

func (s *YouTubeService) userInfo(ctx context.Context, tok *oauth2.Token) (*oauth2api.Userinfo, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(s.oauth.TokenSource(ctx, tok))}, s.apiOptions...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return svc.Userinfo.Get().Context(ctx).Do()
}
