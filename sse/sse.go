// Package sse decodes the `data: <payload>` line protocol streamed by the
// text-generation endpoint into payload tokens.
//
// The decoder is transport independent: it consumes a sequence of byte
// chunks that may split lines at arbitrary positions, including inside the
// "data: " prefix or inside a multi-byte rune, and yields one token per
// complete frame. Decoding is a pure function of the input bytes.
//
// Stream adapts decoded payloads to chat.Stream for the HTTP providers.
package sse

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"strings"
)

const (
	// Prefix marks a payload line.
	Prefix = "data: "
	// Sentinel is the payload that signals the logical end of generation.
	Sentinel = "[DONE]"
)

// DefaultChunkSize is the read size used by Chunks when size <= 0.
const DefaultChunkSize = 4096

// Decoder reassembles frames from byte chunks. The zero value is ready to use.
type Decoder struct {
	residue []byte
	done    bool
	closed  bool
}

// Feed appends chunk to the residue and returns the tokens of every frame
// completed by it, in arrival order. Blank payloads, non-payload lines and
// the sentinel produce no token. Once the sentinel is seen, or after Close,
// Feed returns nil.
func (d *Decoder) Feed(chunk []byte) []string {
	if d.done || d.closed {
		return nil
	}
	d.residue = append(d.residue, chunk...)

	var tokens []string
	for {
		i := bytes.IndexByte(d.residue, '\n')
		if i < 0 {
			break
		}
		line := d.residue[:i]
		d.residue = d.residue[i+1:]

		token, ok := d.parseLine(line)
		if d.done {
			d.residue = nil
			break
		}
		if ok {
			tokens = append(tokens, token)
		}
	}
	// Keep the residue from pinning a large backing array once drained.
	if len(d.residue) == 0 {
		d.residue = nil
	}
	return tokens
}

// parseLine extracts the token of one complete line. It sets d.done when the
// line carries the sentinel.
func (d *Decoder) parseLine(line []byte) (string, bool) {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	payload, ok := bytes.CutPrefix(line, []byte(Prefix))
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == Sentinel {
		d.done = true
		return "", false
	}
	if trimmed == "" {
		return "", false
	}
	return string(payload), true
}

// Done reports whether the sentinel has been seen.
func (d *Decoder) Done() bool { return d.done }

// Close discards the residue. A trailing line with no closing newline is
// not a complete frame and is never yielded.
func (d *Decoder) Close() {
	d.closed = true
	d.residue = nil
}

// Decode returns a lazy sequence of tokens decoded from chunks. The sequence
// ends when the sentinel arrives, when chunks is exhausted, or when the
// consumer stops. A chunk error is yielded once as the final element.
func Decode(chunks iter.Seq2[[]byte, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var d Decoder
		defer d.Close()
		for chunk, err := range chunks {
			if err != nil {
				yield("", err)
				return
			}
			for _, token := range d.Feed(chunk) {
				if !yield(token, nil) {
					return
				}
			}
			if d.Done() {
				return
			}
		}
	}
}

// Chunks returns a finite, non-restartable sequence of byte chunks read from
// r in reads of at most size bytes. io.EOF ends the sequence; any other read
// error is yielded once. Each chunk is a fresh slice owned by the consumer.
func Chunks(r io.Reader, size int) iter.Seq2[[]byte, error] {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return func(yield func([]byte, error) bool) {
		buf := make([]byte, size)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if !yield(chunk, nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}
