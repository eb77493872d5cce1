package chat

import "context"

// Provider is a strategy pattern interface for text-generation services.
type Provider interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Conversation owns a transcript and drives one request/response cycle at a
// time against a Provider.
//
// Send appends the user turn and an empty assistant turn, streams the answer
// into the assistant turn, and blocks until the cycle ends. onUpdate, when
// non-nil, receives a fresh snapshot after every change. Cancelling ctx ends
// the cycle like a normal stream end.
type Conversation interface {
	Send(ctx context.Context, content string, onUpdate func(Update)) error
	Snapshot() Update
	Clear() error
}
