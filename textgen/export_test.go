package textgen

import (
	"context"
	"io"
	"iter"

	"github.com/fwojciec/chat"
)

// NewStreamFromSeq exposes stream construction over a prebuilt token
// sequence for tests.
func NewStreamFromSeq(ctx context.Context, body io.ReadCloser, tokens iter.Seq2[string, error]) chat.Stream {
	return newStreamFromSeq(ctx, body, tokens)
}
