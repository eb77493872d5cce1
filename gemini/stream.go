package gemini

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/fwojciec/chat"
	"google.golang.org/genai"
)

// stream implements [chat.Stream] by wrapping the genai SDK's streaming iterator.
type stream struct {
	ctx     context.Context
	pull    func() (*genai.GenerateContentResponse, error, bool)
	stop    func()
	pending []string // text parts of the current chunk not yet returned
	state   chat.StreamState
	err     error
}

// Interface compliance check.
var _ chat.Stream = (*stream)(nil)

func newStream(ctx context.Context, seq iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(seq)
	return &stream{
		ctx:   ctx,
		pull:  next,
		stop:  stop,
		state: chat.StreamStateNew,
	}
}

func (s *stream) Next() (string, error) {
	switch s.state {
	case chat.StreamStateComplete:
		return "", io.EOF
	case chat.StreamStateError:
		return "", s.err
	case chat.StreamStateClosed:
		return "", fmt.Errorf("gemini: %w", chat.ErrStreamClosed)
	}

	for len(s.pending) == 0 {
		resp, err, ok := s.pull()
		if !ok {
			s.state = chat.StreamStateComplete
			s.stop()
			return "", io.EOF
		}
		if err != nil {
			s.state = chat.StreamStateError
			if ctxErr := s.ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			s.err = fmt.Errorf("gemini: %w", err)
			s.stop()
			return "", s.err
		}
		s.pending = textParts(resp)
	}

	token := s.pending[0]
	s.pending = s.pending[1:]
	s.state = chat.StreamStateStreaming
	return token, nil
}

func (s *stream) State() chat.StreamState {
	return s.state
}

func (s *stream) Close() error {
	if s.state != chat.StreamStateComplete && s.state != chat.StreamStateError {
		s.state = chat.StreamStateClosed
	}
	s.pending = nil
	s.stop()
	return nil
}

// textParts returns the non-empty, non-thought text parts of the first
// candidate.
func textParts(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return nil
	}
	var parts []string
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought || p.Text == "" {
			continue
		}
		parts = append(parts, p.Text)
	}
	return parts
}
