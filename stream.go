package chat

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving tokens.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Provider.Stream() or through Close().
//
// Next returns tokens in arrival order, each exactly once. It returns io.EOF
// when generation ends, either because the termination sentinel arrived or
// because the underlying body closed. Any other error is terminal and is
// returned again by subsequent calls.
//
// Close releases the underlying connection. Calling Next after Close
// returns an error wrapping ErrStreamClosed unless a terminal state was
// already reached.
type Stream interface {
	Next() (string, error)
	State() StreamState
	Close() error
}
