// Package textgen implements [chat.Provider] for a streaming chat-completion
// endpoint.
//
// The endpoint accepts a POST with the conversation history and answers
// with newline-delimited `data: <text>` lines, terminated logically by
// `data: [DONE]` and physically by the body closing. Lines are decoded by
// package sse and surfaced through the pull-based [chat.Stream] interface.
package textgen

import (
	"errors"
	"fmt"

	"github.com/fwojciec/chat"
)

const (
	defaultEndpoint  = "http://localhost:8000/api/stream"
	defaultChunkSize = 4096
	maxErrorBody     = 4096
)

// ErrNoBody indicates a successful response that carried no body to stream.
var ErrNoBody = errors.New("response has no body")

// apiRequest is the JSON body sent to the endpoint.
type apiRequest struct {
	Model    string         `json:"model,omitempty"`
	Messages []chat.Message `json:"messages"`
}

// HTTPError is returned when the endpoint answers with a non-success status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("textgen: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("textgen: HTTP %d: %s", e.StatusCode, e.Body)
}
