package gemini_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fwojciec/chat"
	"github.com/fwojciec/chat/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// mockChunks returns a genai-style streaming iterator from pre-built chunks.
func mockChunks(chunks []*genai.GenerateContentResponse) func(func(*genai.GenerateContentResponse, error) bool) {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func textChunk(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: parts},
		}},
	}
}

func collectTokens(t *testing.T, s chat.Stream) []string {
	t.Helper()
	var tokens []string
	for {
		token, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		tokens = append(tokens, token)
	}
	return tokens
}

func TestStream_TextParts(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		textChunk(&genai.Part{Text: "Hel"}),
		textChunk(&genai.Part{Text: "lo"}, &genai.Part{Text: " world"}),
	}
	s := gemini.NewStreamFromIter(context.Background(), mockChunks(chunks))

	assert.Equal(t, chat.StreamStateNew, s.State())
	assert.Equal(t, []string{"Hel", "lo", " world"}, collectTokens(t, s))
	assert.Equal(t, chat.StreamStateComplete, s.State())
}

func TestStream_SkipsThoughtsAndEmptyParts(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		textChunk(&genai.Part{Text: "pondering", Thought: true}),
		{Candidates: nil},
		textChunk(&genai.Part{Text: ""}, &genai.Part{Text: "answer"}),
		{Candidates: []*genai.Candidate{{Content: nil}}},
	}
	s := gemini.NewStreamFromIter(context.Background(), mockChunks(chunks))

	assert.Equal(t, []string{"answer"}, collectTokens(t, s))
}

func TestStream_Error(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("quota exceeded")
	seq := func(yield func(*genai.GenerateContentResponse, error) bool) {
		if !yield(textChunk(&genai.Part{Text: "partial"}), nil) {
			return
		}
		yield(nil, wantErr)
	}
	s := gemini.NewStreamFromIter(context.Background(), seq)

	token, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "partial", token)

	_, err = s.Next()
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, chat.StreamStateError, s.State())

	_, err2 := s.Next()
	assert.Equal(t, err, err2)
}

func TestStream_ErrorAfterCancelReportsContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	seq := func(yield func(*genai.GenerateContentResponse, error) bool) {
		cancel()
		yield(nil, errors.New("transport closed"))
	}
	s := gemini.NewStreamFromIter(ctx, seq)

	_, err := s.Next()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStream_Close(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		textChunk(&genai.Part{Text: "a"}, &genai.Part{Text: "b"}),
	}
	s := gemini.NewStreamFromIter(context.Background(), mockChunks(chunks))

	token, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", token)

	require.NoError(t, s.Close())
	assert.Equal(t, chat.StreamStateClosed, s.State())

	_, err = s.Next()
	assert.ErrorIs(t, err, chat.ErrStreamClosed)
}
