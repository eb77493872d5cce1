package chat

import "time"

// Message is one {role, content} pair of the conversation history sent to
// the remote service.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Turn is a read snapshot of one transcript entry. The turn being streamed
// into keeps changing after a snapshot is taken; consumers re-read on every
// Update instead of holding on to a Turn.
type Turn struct {
	Role     Role
	Content  string
	Complete bool
	Created  time.Time // when the turn was appended
}

// Message returns the wire form of the turn. Created is not sent.
func (t Turn) Message() Message {
	return Message{Role: t.Role, Content: t.Content}
}

// Status is the streaming status exposed to the display layer.
type Status int

const (
	StatusIdle      Status = iota // No request in flight.
	StatusStreaming               // An assistant turn is being streamed into.
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Update is delivered to the display layer once per folded token and once
// more when a cycle ends. Turns is a copy owned by the receiver.
type Update struct {
	Turns  []Turn
	Status Status
}

// Streaming reports whether a cycle is in flight.
func (u Update) Streaming() bool { return u.Status == StatusStreaming }
