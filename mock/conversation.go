package mock

import (
	"context"

	"github.com/fwojciec/chat"
)

// Interface compliance check.
var _ chat.Conversation = (*Conversation)(nil)

// Conversation is a test double for chat.Conversation.
// SendFn panics when nil. SnapshotFn and ClearFn are nil-safe.
type Conversation struct {
	SendFn     func(ctx context.Context, content string, onUpdate func(chat.Update)) error
	SnapshotFn func() chat.Update
	ClearFn    func() error
}

// Send delegates to SendFn.
func (c *Conversation) Send(ctx context.Context, content string, onUpdate func(chat.Update)) error {
	return c.SendFn(ctx, content, onUpdate)
}

// Snapshot delegates to SnapshotFn. Returns an empty idle Update when
// SnapshotFn is nil.
func (c *Conversation) Snapshot() chat.Update {
	if c.SnapshotFn == nil {
		return chat.Update{}
	}
	return c.SnapshotFn()
}

// Clear delegates to ClearFn. Returns nil when ClearFn is not set.
func (c *Conversation) Clear() error {
	if c.ClearFn == nil {
		return nil
	}
	return c.ClearFn()
}
