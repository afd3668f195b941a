package handler

import (
	"strconv"
	"time"

	"github.com/iliyamo/live-commerce-backend/internal/model"
	"github.com/iliyamo/live-commerce-backend/internal/service"
)

type reservationResponse struct {
	ID            uint64    `json:"id"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	CustomerEmail string    `json:"customerEmail"`
	ProductIDs    *string   `json:"productIds"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toReservationResponse(r *model.Reservation) reservationResponse {
	return reservationResponse{
		ID:            r.ID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		ProductIDs:    r.ProductIDs,
		Date:          r.Date,
		Time:          r.Time,
		CreatedAt:     r.CreatedAt,
	}
}

// streamResponse is served on public routes; the publisher token stored
// on the session is only ever returned by Start.
type streamResponse struct {
	ID               uint64     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	HostID           string     `json:"hostId"`
	Status           string     `json:"status"`
	Active           bool       `json:"active"`
	AgoraChannelName *string    `json:"agoraChannelName"`
	StartTime        *time.Time `json:"startTime"`
	EndTime          *time.Time `json:"endTime"`
	ViewCount        int        `json:"viewCount"`
}

func toStreamResponse(s *model.StreamSession) streamResponse {
	return streamResponse{
		ID:               s.ID,
		Title:            s.Title,
		Description:      s.Description,
		HostID:           s.HostID,
		Status:           string(s.Status),
		Active:           s.IsActive,
		AgoraChannelName: s.AgoraChannelName,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
		ViewCount:        s.ViewCount,
	}
}

func toStreamList(in []model.StreamSession) []streamResponse {
	out := make([]streamResponse, 0, len(in))
	for i := range in {
		out = append(out, toStreamResponse(&in[i]))
	}
	return out
}

// agoraTokenResponse carries the uid as a string, the shape existing
// player clients already parse.
type agoraTokenResponse struct {
	ChannelName     string `json:"channelName"`
	Token           string `json:"token"`
	UID             string `json:"uid"`
	ExpireTimestamp int64  `json:"expireTimestamp"`
}

func toAgoraTokenResponse(t service.RTCToken) agoraTokenResponse {
	return agoraTokenResponse{
		ChannelName:     t.Channel,
		Token:           t.Token,
		UID:             strconv.FormatUint(uint64(t.UID), 10),
		ExpireTimestamp: t.ExpiresAt.Unix(),
	}
}

type chatMessageResponse struct {
	ID        uint64    `json:"id"`
	StreamID  uint64    `json:"streamId"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func toChatMessageResponse(m *model.ChatMessage) chatMessageResponse {
	return chatMessageResponse{ID: m.ID, StreamID: m.StreamID, Sender: m.Sender, Message: m.Message, Timestamp: m.Timestamp}
}
