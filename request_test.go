package chat_test

import (
	"testing"

	"github.com/fwojciec/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Validate_Valid(t *testing.T) {
	t.Parallel()
	r := chat.Request{
		Messages: []chat.Message{
			{Role: chat.RoleUser, Content: "hello"},
			{Role: chat.RoleAssistant, Content: "hi"},
			{Role: chat.RoleUser, Content: "how are you?"},
		},
	}
	assert.NoError(t, r.Validate())
}

func TestRequest_Validate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  chat.Request
		want string
	}{
		{
			name: "no messages",
			req:  chat.Request{},
			want: "no messages",
		},
		{
			name: "unknown role",
			req: chat.Request{Messages: []chat.Message{
				{Role: "system", Content: "x"},
				{Role: chat.RoleUser, Content: "hi"},
			}},
			want: "unknown role",
		},
		{
			name: "last message from assistant",
			req: chat.Request{Messages: []chat.Message{
				{Role: chat.RoleUser, Content: "hi"},
				{Role: chat.RoleAssistant, Content: "hello"},
			}},
			want: "last message must be from user",
		},
		{
			name: "blank last message",
			req: chat.Request{Messages: []chat.Message{
				{Role: chat.RoleUser, Content: "  \n"},
			}},
			want: "blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, chat.ErrValidation)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRole_Valid(t *testing.T) {
	t.Parallel()
	assert.True(t, chat.RoleUser.Valid())
	assert.True(t, chat.RoleAssistant.Valid())
	assert.False(t, chat.Role("tool_result").Valid())
	assert.False(t, chat.Role("").Valid())
}
