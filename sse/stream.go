package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/fwojciec/chat"
)

// ErrTruncated is returned when the body ends before the end event of a
// stream created with [RequireEnd].
var ErrTruncated = errors.New("unexpected end of stream")

// Handler interprets one decoded payload. It returns the text to yield, ""
// to skip the payload, or done when the payload ends the stream.
type Handler func(payload string) (text string, done bool, err error)

// Stream implements [chat.Stream] over the payloads decoded from an HTTP
// response body. By default every payload is yielded as a token and the
// stream completes when the payloads run out.
type Stream struct {
	name       string // error prefix
	body       io.ReadCloser
	ctx        context.Context
	handle     Handler
	requireEnd bool
	next       func() (string, error, bool)
	stop       func()
	state      chat.StreamState
	err        error // terminal error, if any
}

// Interface compliance check.
var _ chat.Stream = (*Stream)(nil)

// StreamOption configures a [Stream].
type StreamOption func(*Stream)

// WithHandler interprets each payload with h instead of yielding it as is.
func WithHandler(h Handler) StreamOption {
	return func(s *Stream) { s.handle = h }
}

// RequireEnd makes running out of payloads before the handler reports done
// an [ErrTruncated] error.
func RequireEnd() StreamOption {
	return func(s *Stream) { s.requireEnd = true }
}

// NewStream pulls payloads from the given sequence, which normally decodes
// body. Errors are prefixed with name. body is closed as soon as the stream
// reaches a terminal state, and again by Close.
func NewStream(ctx context.Context, name string, body io.ReadCloser, payloads iter.Seq2[string, error], opts ...StreamOption) *Stream {
	next, stop := iter.Pull2(payloads)
	s := &Stream{
		name:  name,
		body:  body,
		ctx:   ctx,
		next:  next,
		stop:  stop,
		state: chat.StreamStateNew,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Next returns the next token. It returns io.EOF once the stream completes.
func (s *Stream) Next() (string, error) {
	switch s.state {
	case chat.StreamStateComplete:
		return "", io.EOF
	case chat.StreamStateError:
		return "", s.err
	case chat.StreamStateClosed:
		return "", fmt.Errorf("%s: %w", s.name, chat.ErrStreamClosed)
	}

	for {
		payload, err, ok := s.next()
		if !ok {
			if s.requireEnd {
				s.terminate(ErrTruncated)
				return "", s.err
			}
			s.complete()
			return "", io.EOF
		}
		if err != nil {
			s.terminate(err)
			return "", s.err
		}
		s.state = chat.StreamStateStreaming

		if s.handle == nil {
			return payload, nil
		}
		text, done, err := s.handle(payload)
		if err != nil {
			s.terminate(err)
			return "", s.err
		}
		if done {
			s.complete()
			return "", io.EOF
		}
		if text != "" {
			return text, nil
		}
	}
}

// State returns the current stream state.
func (s *Stream) State() chat.StreamState {
	return s.state
}

// Close stops decoding and closes the response body. It must not be called
// concurrently with Next; cancel the request context to interrupt a
// blocked Next.
func (s *Stream) Close() error {
	if s.state != chat.StreamStateComplete && s.state != chat.StreamStateError {
		s.state = chat.StreamStateClosed
	}
	s.stop()
	return s.body.Close()
}

func (s *Stream) complete() {
	s.state = chat.StreamStateComplete
	s.release()
}

// terminate records a terminal error. A read failure caused by context
// cancellation is reported as the context error so callers can tell an
// abort from a transport failure.
func (s *Stream) terminate(err error) {
	s.state = chat.StreamStateError
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	s.err = fmt.Errorf("%s: %w", s.name, err)
	s.release()
}

// release stops the decoder and closes the body so the connection is not
// held until Close.
func (s *Stream) release() {
	s.stop()
	_ = s.body.Close()
}
