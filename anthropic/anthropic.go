// Package anthropic implements [chat.Provider] for the Anthropic Messages API.
//
// The API streams server-sent events whose data lines carry JSON objects.
// Data lines are framed by the sse package; each payload is then decoded
// and text deltas are surfaced as tokens. The stream has no sentinel line:
// it ends with a message_stop event.
package anthropic

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 8192
	apiVersion       = "2023-06-01"
	messagesPath     = "/v1/messages"
	chunkSize        = 4096
)

// apiRequest is the JSON body sent to the Anthropic Messages API.
type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Stream    bool         `json:"stream"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// sseEvent is the union of the streamed event payloads this client reads.
// Fields irrelevant to a given Type are left zero.
type sseEvent struct {
	Type  string         `json:"type"`
	Delta sseDelta       `json:"delta"`
	Error sseErrorDetail `json:"error"`
}

type sseDelta struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type sseErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// apiErrorResponse is the JSON body returned on non-200 HTTP responses.
type apiErrorResponse struct {
	Type  string         `json:"type"`
	Error sseErrorDetail `json:"error"`
}
