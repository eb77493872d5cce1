package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/chat/sse"
)

// newStream yields the text deltas of a Messages API event stream. The body
// must end with message_stop.
func newStream(ctx context.Context, body io.ReadCloser) *sse.Stream {
	return sse.NewStream(ctx, "anthropic", body, sse.Decode(sse.Chunks(body, chunkSize)),
		sse.WithHandler(processEvent),
		sse.RequireEnd())
}

// processEvent decodes one data payload. It returns the text carried by a
// text delta, or "" for every other event.
func processEvent(data string) (string, bool, error) {
	var evt sseEvent
	if err := json.Unmarshal([]byte(data), &evt); err != nil {
		return "", false, fmt.Errorf("failed to parse event: %w", err)
	}
	switch evt.Type {
	case "content_block_delta":
		if evt.Delta.Type == "text_delta" {
			return evt.Delta.Text, false, nil
		}
		// Thinking, signature and tool input deltas are not shown.
		return "", false, nil
	case "message_stop":
		return "", true, nil
	case "error":
		return "", false, fmt.Errorf("%s: %s", evt.Error.Type, evt.Error.Message)
	default:
		// Unknown event types are ignored per the API docs.
		return "", false, nil
	}
}
