package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/chat"
	bt "github.com/fwojciec/chat/bubbletea"
	"github.com/fwojciec/chat/mock"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, conv chat.Conversation) bt.Model {
	t.Helper()
	return initModelWithSize(t, conv, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, conv chat.Conversation, width, height int) bt.Model {
	t.Helper()
	m := bt.New(conv, chat.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// typeText types s into the model's input one rune at a time.
func typeText(t *testing.T, m bt.Model, s string) bt.Model {
	t.Helper()
	for _, r := range s {
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// nopConversation returns a conversation that accepts every message and
// never produces any turns.
func nopConversation() *mock.Conversation {
	return &mock.Conversation{
		SendFn: func(context.Context, string, func(chat.Update)) error { return nil },
	}
}

func streaming(turns ...chat.Turn) bt.UpdateMsg {
	return bt.UpdateMsg{Update: chat.Update{Turns: turns, Status: chat.StatusStreaming}}
}

// runCmds runs cmd, and every command of a batch it returns, in the
// background, discarding the resulting messages.
func runCmds(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			go runCmds(c)
		}
	}
}
