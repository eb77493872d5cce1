package anthropic_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/chat"
	"github.com/fwojciec/chat/anthropic"
	"github.com/fwojciec/chat/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_TextResponse(t *testing.T) {
	t.Parallel()
	s := streamFrom(t, textStreamResponse().handler())

	assert.Equal(t, chat.StreamStateNew, s.State())
	tokens := collectTokens(t, s)

	assert.Equal(t, []string{"Hello", " world"}, tokens)
	assert.Equal(t, chat.StreamStateComplete, s.State())

	_, err := s.Next()
	assert.ErrorIs(t, err, io.EOF, "Next after completion keeps returning io.EOF")
}

func TestStream_ByteAtATime(t *testing.T) {
	t.Parallel()
	body := textStreamResponse().String()
	s := streamFrom(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		for i := range len(body) {
			_, _ = w.Write([]byte{body[i]})
			flusher.Flush()
		}
	}))

	assert.Equal(t, []string{"Hello", " world"}, collectTokens(t, s))
}

func TestStream_SkipsNonTextDeltas(t *testing.T) {
	t.Parallel()
	resp := sseResponse{events: []sseEvent{
		{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"thinking","thinking":""}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"thinking_delta","thinking":"hmm"}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"signature_delta","signature":"sig"}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":1,"delta":{"type":"text_delta","text":"Answer"}}`},
		{"future_event", `{"type":"future_event"}`},
		{"message_stop", `{"type":"message_stop"}`},
	}}
	s := streamFrom(t, resp.handler())

	assert.Equal(t, []string{"Answer"}, collectTokens(t, s))
}

func TestStream_ErrorEvent(t *testing.T) {
	t.Parallel()
	resp := sseResponse{events: []sseEvent{
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Par"}}`},
		{"error", `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`},
	}}
	s := streamFrom(t, resp.handler())

	token, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "Par", token)

	_, err = s.Next()
	require.Error(t, err)
	assert.Equal(t, "anthropic: overloaded_error: Overloaded", err.Error())
	assert.Equal(t, chat.StreamStateError, s.State())

	_, again := s.Next()
	assert.Equal(t, err, again, "terminal error is sticky")
}

func TestStream_UnexpectedEnd(t *testing.T) {
	t.Parallel()
	resp := sseResponse{events: []sseEvent{
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"cut"}}`},
	}}
	s := streamFrom(t, resp.handler())

	token, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "cut", token)

	_, err = s.Next()
	require.ErrorIs(t, err, sse.ErrTruncated)
	assert.Equal(t, "anthropic: unexpected end of stream", err.Error())
}

func TestStream_MalformedPayload(t *testing.T) {
	t.Parallel()
	s := streamFrom(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: {not json\n\n"))
	}))

	_, err := s.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse event")
}

func TestStream_Close(t *testing.T) {
	t.Parallel()
	s := streamFrom(t, textStreamResponse().handler())

	token, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "Hello", token)

	require.NoError(t, s.Close())
	assert.Equal(t, chat.StreamStateClosed, s.State())

	_, err = s.Next()
	assert.ErrorIs(t, err, chat.ErrStreamClosed)
}

func TestStream_ContextCancel(t *testing.T) {
	t.Parallel()

	sent := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"Hi\"}}\n\n"))
		w.(http.Flusher).Flush()
		close(sent)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := anthropic.New("k", anthropic.WithBaseURL(srv.URL), anthropic.WithHTTPClient(srv.Client()))
	s, err := client.Stream(ctx, hiRequest())
	require.NoError(t, err)
	defer s.Close()

	token, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "Hi", token)

	<-sent
	cancel()
	_, err = s.Next()
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
