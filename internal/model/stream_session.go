package model

import "time"

// StreamStatus is the lifecycle state of a live-stream session.  A session
// only ever moves forward: CREATED -> LIVE -> ENDED.
type StreamStatus string

const (
	StreamStatusCreated StreamStatus = "CREATED"
	StreamStatusLive    StreamStatus = "LIVE"
	StreamStatusEnded   StreamStatus = "ENDED"
)

// rank orders statuses so transitions can be checked for direction.
func (s StreamStatus) rank() int {
	switch s {
	case StreamStatusCreated:
		return 0
	case StreamStatusLive:
		return 1
	case StreamStatusEnded:
		return 2
	}
	return -1
}

// CanMoveTo reports whether a session in status s may transition to next.
// Staying in the same status is allowed; moving backwards is not.
func (s StreamStatus) CanMoveTo(next StreamStatus) bool {
	return s.rank() >= 0 && next.rank() >= s.rank()
}

// StreamSession represents a row in the `stream_sessions` table.
//
// Fields:
//  ID               – primary key identifier.
//  Title            – stream title.
//  Description      – free-form description.
//  HostID           – identifier of the hosting seller.
//  Status           – CREATED, LIVE or ENDED.
//  IsActive         – true from creation until the stream is ended.
//  AgoraChannelName – RTC channel, set when the stream is started.
//  AgoraToken       – publisher token issued at start.
//  StartTime        – set at creation.
//  EndTime          – set only when the stream is ended.
//  ViewCount        – number of viewers recorded.
type StreamSession struct {
	ID               uint64       // stream_sessions.id
	Title            string       // stream_sessions.title
	Description      string       // stream_sessions.description
	HostID           string       // stream_sessions.host_id
	Status           StreamStatus // stream_sessions.status
	IsActive         bool         // stream_sessions.is_active
	AgoraChannelName *string      // stream_sessions.agora_channel_name (nullable)
	AgoraToken       *string      // stream_sessions.agora_token (nullable)
	StartTime        *time.Time   // stream_sessions.start_time (nullable)
	EndTime          *time.Time   // stream_sessions.end_time (nullable)
	ViewCount        int          // stream_sessions.view_count
}
