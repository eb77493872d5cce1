package gemini

import (
	"context"
	"iter"

	"github.com/fwojciec/chat"
	"google.golang.org/genai"
)

// NewStreamFromIter exposes stream construction over a prebuilt SDK
// iterator for tests.
func NewStreamFromIter(ctx context.Context, seq iter.Seq2[*genai.GenerateContentResponse, error]) chat.Stream {
	return newStream(ctx, seq)
}
