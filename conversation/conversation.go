// Package conversation owns the chat transcript and folds streamed tokens
// into it, one request/response cycle at a time.
//
// A cycle moves the Reducer from idle to streaming on Begin and back to
// idle on exactly one of OnStreamEnd or OnStreamError. Send drives a whole
// cycle against a chat.Provider; the On* methods are the individual steps
// and are exported for callers that decode streams themselves.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/chat"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Interface compliance check.
var _ chat.Conversation = (*Reducer)(nil)

// Reducer maintains the ordered transcript and the streaming status.
type Reducer struct {
	provider chat.Provider
	logger   *zap.Logger
	model    string
	timeout  time.Duration
	onUpdate func(chat.Update)
	now      func() time.Time

	mu     sync.Mutex
	turns  []chat.Turn
	buf    strings.Builder // content of the incomplete assistant turn
	status chat.Status
	cycle  *cycle // nil when idle
}

// cycle is the per-request state of one in-flight stream.
type cycle struct {
	id        string
	cancel    context.CancelFunc
	cancelled bool
	onUpdate  func(chat.Update)
	tokens    int
	started   time.Time
}

// Option configures a [Reducer].
type Option func(*Reducer)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reducer) { r.logger = l }
}

// WithModel sets the model ID sent with every request.
// Empty string means the provider uses its default model.
func WithModel(model string) Option {
	return func(r *Reducer) { r.model = model }
}

// WithTimeout bounds the duration of a whole cycle. Expiry is treated as a
// transport error. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Reducer) { r.timeout = d }
}

// WithUpdateHandler sets the handler notified by cycles started with Begin,
// or by Send when it is given no handler of its own.
func WithUpdateHandler(h func(chat.Update)) Option {
	return func(r *Reducer) { r.onUpdate = h }
}

// WithClock sets the source of turn creation times. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reducer) { r.now = now }
}

// New creates a Reducer that streams answers from provider.
func New(provider chat.Provider, opts ...Option) *Reducer {
	r := &Reducer{
		provider: provider,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Send runs one full cycle: it begins a new turn pair, dispatches the
// history, folds every token into the assistant turn, and finalizes it.
// onUpdate, when non-nil, receives a snapshot after every change.
//
// A transport failure replaces the assistant content with chat.ErrorMessage
// and is returned. Cancelling ctx or calling Cancel ends the cycle like a
// normal stream end: the partial content is kept and Send returns nil.
func (r *Reducer) Send(ctx context.Context, content string, onUpdate func(chat.Update)) error {
	if r.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, r.timeout)
		defer cancelTimeout()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	history, err := r.begin(content, cancel, onUpdate)
	if err != nil {
		return err
	}

	err = r.drain(ctx, history)
	switch {
	case err == nil:
		_ = r.OnStreamEnd()
		return nil
	case r.aborted(ctx):
		r.logger.Info("stream cancelled", zap.String("session", r.sessionID()))
		_ = r.OnStreamEnd()
		return nil
	default:
		_ = r.OnStreamError(err)
		return err
	}
}

// drain dispatches the request and folds tokens until the stream ends.
func (r *Reducer) drain(ctx context.Context, history []chat.Message) error {
	stream, err := r.provider.Stream(ctx, chat.Request{Model: r.model, Messages: history})
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		token, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// No fold after cancellation, even if the stream ignores ctx.
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.OnToken(token); err != nil {
			return err
		}
	}
}

// aborted reports whether the cycle ended because the caller cancelled it,
// as opposed to a timeout or transport failure.
func (r *Reducer) aborted(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cycle != nil && r.cycle.cancelled {
		return true
	}
	return errors.Is(ctx.Err(), context.Canceled)
}

// Cancel stops the in-flight cycle started by Send. The cycle ends through
// the normal end path. It reports whether there was a cycle to cancel.
func (r *Reducer) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cycle == nil || r.cycle.cancel == nil {
		return false
	}
	r.cycle.cancelled = true
	r.cycle.cancel()
	return true
}

// Begin appends a complete user turn holding content and an empty assistant
// turn, and switches to streaming. It returns the history to dispatch: every
// turn up to and including the new user turn, minus assistant turns left
// empty by a cancelled cycle. Begin fails with
// chat.ErrAlreadyStreaming while a cycle is in flight.
func (r *Reducer) Begin(content string) ([]chat.Message, error) {
	return r.begin(content, nil, nil)
}

func (r *Reducer) begin(content string, cancel context.CancelFunc, onUpdate func(chat.Update)) ([]chat.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("conversation: blank message: %w", chat.ErrValidation)
	}
	if onUpdate == nil {
		onUpdate = r.onUpdate
	}

	r.mu.Lock()
	if r.cycle != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("conversation: %w", chat.ErrAlreadyStreaming)
	}
	created := r.now()
	r.turns = append(r.turns, chat.Turn{Role: chat.RoleUser, Content: content, Complete: true, Created: created})
	history := make([]chat.Message, 0, len(r.turns))
	for _, t := range r.turns {
		// Remote services reject empty content blocks.
		if t.Role == chat.RoleAssistant && t.Content == "" {
			continue
		}
		history = append(history, t.Message())
	}
	r.turns = append(r.turns, chat.Turn{Role: chat.RoleAssistant, Created: created})
	r.buf.Reset()
	r.status = chat.StatusStreaming
	c := &cycle{
		id:       uuid.NewString(),
		cancel:   cancel,
		onUpdate: onUpdate,
		started:  time.Now(),
	}
	r.cycle = c
	update := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.Info("stream started",
		zap.String("session", c.id),
		zap.Int("history", len(history)))
	c.emit(update)
	return history, nil
}

// OnToken appends payload to the incomplete assistant turn. Tokens are not
// deduplicated; the decoder delivers each one exactly once.
func (r *Reducer) OnToken(payload string) error {
	r.mu.Lock()
	c := r.cycle
	if c == nil {
		r.mu.Unlock()
		return fmt.Errorf("conversation: %w", chat.ErrNotStreaming)
	}
	r.buf.WriteString(payload)
	c.tokens++
	update := r.snapshotLocked()
	r.mu.Unlock()

	c.emit(update)
	return nil
}

// OnStreamEnd marks the assistant turn complete and returns to idle.
func (r *Reducer) OnStreamEnd() error {
	c, err := r.finish(false)
	if err != nil {
		return err
	}
	r.logger.Info("stream completed",
		zap.String("session", c.id),
		zap.Int("tokens", c.tokens),
		zap.Duration("elapsed", time.Since(c.started)))
	return nil
}

// OnStreamError replaces the assistant content with chat.ErrorMessage,
// marks the turn complete and returns to idle. err is logged only.
func (r *Reducer) OnStreamError(err error) error {
	c, ferr := r.finish(true)
	if ferr != nil {
		return ferr
	}
	r.logger.Error("stream failed",
		zap.String("session", c.id),
		zap.Int("tokens", c.tokens),
		zap.Duration("elapsed", time.Since(c.started)),
		zap.Error(err))
	return nil
}

// finish finalizes the in-flight cycle exactly once.
func (r *Reducer) finish(failed bool) (*cycle, error) {
	r.mu.Lock()
	c := r.cycle
	if c == nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("conversation: %w", chat.ErrNotStreaming)
	}
	last := &r.turns[len(r.turns)-1]
	if failed {
		last.Content = chat.ErrorMessage
	} else {
		last.Content = r.buf.String()
	}
	last.Complete = true
	r.buf.Reset()
	r.status = chat.StatusIdle
	r.cycle = nil
	update := r.snapshotLocked()
	r.mu.Unlock()

	c.emit(update)
	return c, nil
}

// Snapshot returns a copy of the transcript and the current status.
func (r *Reducer) Snapshot() chat.Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Status returns the current streaming status.
func (r *Reducer) Status() chat.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Clear drops every turn. It fails with chat.ErrAlreadyStreaming while a
// cycle is in flight.
func (r *Reducer) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cycle != nil {
		return fmt.Errorf("conversation: %w", chat.ErrAlreadyStreaming)
	}
	r.turns = nil
	return nil
}

func (r *Reducer) sessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cycle == nil {
		return ""
	}
	return r.cycle.id
}

func (r *Reducer) snapshotLocked() chat.Update {
	turns := make([]chat.Turn, len(r.turns))
	copy(turns, r.turns)
	if r.cycle != nil && len(turns) > 0 {
		turns[len(turns)-1].Content = r.buf.String()
	}
	return chat.Update{Turns: turns, Status: r.status}
}

func (c *cycle) emit(u chat.Update) {
	if c.onUpdate != nil {
		c.onUpdate(u)
	}
}
