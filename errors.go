package chat

import "errors"

// ErrorMessage replaces the content of an assistant turn whose stream failed.
// The underlying error is logged, never shown in the transcript.
const ErrorMessage = "Sorry, I encountered an error. Please try again."

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or message failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrAlreadyStreaming indicates a new cycle was started while one is in flight.
	ErrAlreadyStreaming = errors.New("already streaming")

	// ErrNotStreaming indicates a stream event arrived with no cycle in flight.
	ErrNotStreaming = errors.New("not streaming")
)
