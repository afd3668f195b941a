package model

import "time"

// ChatMessage is a single message posted to a stream's chat.  StreamID
// refers to stream_sessions.id by value only; the session is never loaded
// alongside the message.
type ChatMessage struct {
	ID        uint64    // chat_messages.id
	StreamID  uint64    // chat_messages.stream_id
	Sender    string    // chat_messages.sender
	Message   string    // chat_messages.message
	Timestamp time.Time // chat_messages.timestamp (server assigned)
}
