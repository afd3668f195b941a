package handler

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/youtube/v3"

	"github.com/iliyamo/live-commerce-backend/internal/model"
	"github.com/iliyamo/live-commerce-backend/internal/service"
	"github.com/iliyamo/live-commerce-backend/internal/utils"
)

type fakeReservations struct {
	err  error
	got  service.ReservationRequest
	list []model.Reservation
}

func (f *fakeReservations) CreateReservation(_ context.Context, req service.ReservationRequest) (*model.Reservation, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	r := &model.Reservation{ID: 1, CustomerName: req.CustomerName, Date: req.Date, Time: req.Time,
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	if len(req.ProductIDs) > 0 {
		joined := "101,102"
		r.ProductIDs = &joined
	}
	return r, nil
}

func (f *fakeReservations) GetReservation(_ context.Context, id uint64) (*model.Reservation, error) {
	for i := range f.list {
		if f.list[i].ID == id {
			return &f.list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", service.ErrReservationNotFound, id)
}

func (f *fakeReservations) ListReservations(context.Context) ([]model.Reservation, error) {
	return f.list, f.err
}

type fakeStreams struct {
	sessions map[uint64]*model.StreamSession
	err      error
	gotUID   uint32
	gotReq   service.CreateStreamRequest
}

func (f *fakeStreams) lookup(id uint64) (*model.StreamSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", service.ErrStreamNotFound, id)
	}
	return s, nil
}

func (f *fakeStreams) CreateStream(_ context.Context, req service.CreateStreamRequest) (*model.StreamSession, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &model.StreamSession{ID: 9, Title: req.Title, HostID: req.HostID, Status: model.StreamStatusCreated, IsActive: true}, nil
}

func (f *fakeStreams) StartStream(_ context.Context, id uint64, uid uint32) (*service.StartedStream, error) {
	f.gotUID = uid
	s, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	tok := service.RTCToken{Channel: service.ChannelName(id), UID: uid, Token: "tok", ExpiresAt: time.Unix(1700000000, 0)}
	return &service.StartedStream{Session: s, Token: tok}, nil
}

func (f *fakeStreams) EndStream(_ context.Context, id uint64) (*model.StreamSession, error) {
	s, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	s.Status, s.IsActive = model.StreamStatusEnded, false
	return s, nil
}

func (f *fakeStreams) GetStream(_ context.Context, id uint64) (*model.StreamSession, error) {
	return f.lookup(id)
}

func (f *fakeStreams) ListActiveStreams(context.Context) ([]model.StreamSession, error) {
	out := []model.StreamSession{}
	for _, s := range f.sessions {
		if s.IsActive {
			out = append(out, *s)
		}
	}
	return out, f.err
}

func (f *fakeStreams) ListHostStreams(_ context.Context, hostID string) ([]model.StreamSession, error) {
	if hostID == "" {
		return nil, fmt.Errorf("%w: hostId is required", service.ErrValidation)
	}
	out := []model.StreamSession{}
	for _, s := range f.sessions {
		if s.HostID == hostID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeTokenGen struct{ err error }

func (f fakeTokenGen) GenerateToken(channel string, uid uint32) (service.RTCToken, error) {
	if f.err != nil {
		return service.RTCToken{}, f.err
	}
	return service.RTCToken{Channel: channel, UID: uid, Token: "006abc", ExpiresAt: time.Unix(1700003600, 0)}, nil
}

type fakeChat struct {
	msgs []model.ChatMessage
}

func (f *fakeChat) SendMessage(_ context.Context, streamID uint64, sender, message string) (*model.ChatMessage, error) {
	if sender == "" || message == "" {
		return nil, fmt.Errorf("%w: sender and message are required", service.ErrValidation)
	}
	m := model.ChatMessage{ID: uint64(len(f.msgs) + 1), StreamID: streamID, Sender: sender, Message: message, Timestamp: time.Now().UTC()}
	f.msgs = append(f.msgs, m)
	return &m, nil
}

func (f *fakeChat) ListMessages(_ context.Context, streamID uint64) ([]model.ChatMessage, error) {
	out := []model.ChatMessage{}
	for _, m := range f.msgs {
		if m.StreamID == streamID {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: stream %d has no messages", service.ErrChatNotFound, streamID)
	}
	return out, nil
}

type fakeAuth struct {
	gotIdentifier string
	revoked       string
	revokedUser   uint64
}

func (f *fakeAuth) result() *service.AuthResult {
	return &service.AuthResult{
		UserID:  1,
		Email:   "ann@example.com",
		Role:    "ROLE_SELLER",
		Access:  utils.AccessToken{Token: "access", Exp: time.Unix(1700000000, 0).UTC()},
		Refresh: utils.RefreshToken{Raw: "refresh", Exp: time.Unix(1700600000, 0).UTC()},
	}
}

func (f *fakeAuth) Login(_ context.Context, identifier, password string) (*service.AuthResult, error) {
	f.gotIdentifier = identifier
	if password != "secret1" {
		return nil, service.ErrInvalidCredentials
	}
	return f.result(), nil
}

func (f *fakeAuth) Refresh(_ context.Context, raw string) (*service.AuthResult, error) {
	if raw != "refresh" {
		return nil, service.ErrInvalidCredentials
	}
	return f.result(), nil
}

func (f *fakeAuth) Logout(_ context.Context, raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: refreshToken is required", service.ErrValidation)
	}
	f.revoked = raw
	return nil
}

func (f *fakeAuth) LogoutAll(_ context.Context, userID uint64) error {
	f.revokedUser = userID
	return nil
}

type fakeYouTube struct {
	sessions  map[string]bool
	completed bool
	video     *youtube.Video
	apiKey    bool
}

func (f *fakeYouTube) AuthCodeURL(state string) (string, error) {
	return "https://accounts.example.com/auth?state=" + state, nil
}

func (f *fakeYouTube) CompleteLogin(_ context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: missing authorization code", service.ErrValidation)
	}
	f.sessions["sess-1"] = true
	return "sess-1", nil
}

func (f *fakeYouTube) Logout(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeYouTube) Status(_ context.Context, id string) service.AuthStatus {
	if !f.sessions[id] {
		return service.AuthStatus{}
	}
	return service.AuthStatus{Authenticated: true, UserName: "Ann", Email: "ann@example.com"}
}

func (f *fakeYouTube) CreateLiveStream(_ context.Context, id string, req service.YouTubeStreamRequest) (*service.StreamDetails, error) {
	if !f.sessions[id] {
		return nil, service.ErrUnauthorized
	}
	return &service.StreamDetails{BroadcastID: "bc-1", StreamID: "s-1", YouTubeViewerURL: "https://www.youtube.com/watch?v=bc-1", Success: true}, nil
}

func (f *fakeYouTube) EndLiveBroadcast(_ context.Context, id, broadcastID string) (bool, error) {
	if !f.sessions[id] {
		return false, service.ErrUnauthorized
	}
	return f.completed, nil
}

func (f *fakeYouTube) VideoDetails(_ context.Context, videoID string) (*youtube.Video, error) {
	if !f.apiKey {
		return nil, fmt.Errorf("%w: youtube api key is not set", service.ErrNotConfigured)
	}
	if f.video == nil || f.video.Id != videoID {
		return nil, fmt.Errorf("%w: %s", service.ErrVideoNotFound, videoID)
	}
	return f.video, nil
}
