package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/chat"
)

// Interface compliance check.
var _ chat.Provider = (*Client)(nil)

// Client implements [chat.Provider] for a streaming chat-completion endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	headers    http.Header
	chunkSize  int
}

// Option configures a [Client].
type Option func(*Client)

// WithEndpoint sets the full URL requests are posted to. Useful for testing
// with httptest.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Add(key, value) }
}

// WithChunkSize sets the maximum number of bytes read from the response
// body at a time.
func WithChunkSize(n int) Option {
	return func(c *Client) { c.chunkSize = n }
}

// New creates a new [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:   defaultEndpoint,
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
		chunkSize:  defaultChunkSize,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream posts the conversation history and returns a [chat.Stream] that
// yields answer tokens as they arrive. A non-success status or a missing
// body is returned as an error before any token is produced.
func (c *Client) Stream(ctx context.Context, req chat.Request) (chat.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("textgen: %w", err)
	}

	body, err := json.Marshal(apiRequest{Model: req.Model, Messages: req.Messages})
	if err != nil {
		return nil, fmt.Errorf("textgen: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("textgen: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("textgen: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("textgen: %w", ErrNoBody)
	}

	return newStream(ctx, resp.Body, c.chunkSize), nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("textgen: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
