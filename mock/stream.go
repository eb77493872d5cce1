package mock

import (
	"io"

	"github.com/fwojciec/chat"
)

// Interface compliance check.
var _ chat.Stream = (*Stream)(nil)

// Stream is a test double for chat.Stream.
// NextFn panics when nil to catch missing setup. CloseFn and StateFn are
// nil-safe (no-op and zero value) because callers commonly defer Close.
type Stream struct {
	NextFn  func() (string, error)
	StateFn func() chat.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (string, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() chat.StreamState {
	if s.StateFn == nil {
		return chat.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Tokens returns a Stream that yields tokens in order and then err.
// A nil err ends the stream with io.EOF.
func Tokens(err error, tokens ...string) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (string, error) {
			if i < len(tokens) {
				i++
				return tokens[i-1], nil
			}
			if err != nil {
				return "", err
			}
			return "", io.EOF
		},
	}
}
