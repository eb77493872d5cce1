package textgen

import (
	"context"
	"io"
	"iter"

	"github.com/fwojciec/chat/sse"
)

// newStream yields every decoded payload of body as a token. The stream
// completes on the sentinel or when the body ends.
func newStream(ctx context.Context, body io.ReadCloser, chunkSize int) *sse.Stream {
	return newStreamFromSeq(ctx, body, sse.Decode(sse.Chunks(body, chunkSize)))
}

func newStreamFromSeq(ctx context.Context, body io.ReadCloser, tokens iter.Seq2[string, error]) *sse.Stream {
	return sse.NewStream(ctx, "textgen", body, tokens)
}
