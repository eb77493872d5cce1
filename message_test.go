package chat_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_JSONShape(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(chat.Message{Role: chat.RoleUser, Content: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":"hi"}`, string(data))
}

func TestTurn_Message(t *testing.T) {
	t.Parallel()
	turn := chat.Turn{Role: chat.RoleAssistant, Content: "hello", Complete: true}
	assert.Equal(t, chat.Message{Role: chat.RoleAssistant, Content: "hello"}, turn.Message())
}

func TestStatus_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "idle", chat.StatusIdle.String())
	assert.Equal(t, "streaming", chat.StatusStreaming.String())
	assert.Equal(t, "unknown", chat.Status(42).String())
}

func TestStatus_ZeroValueIsIdle(t *testing.T) {
	t.Parallel()
	var u chat.Update
	assert.Equal(t, chat.StatusIdle, u.Status)
	assert.False(t, u.Streaming())
}

func TestStreamState_ZeroValue(t *testing.T) {
	t.Parallel()
	var s chat.StreamState
	assert.Equal(t, chat.StreamStateNew, s, "zero-value StreamState should be StreamStateNew")
	assert.Equal(t, "new", s.String())
}
