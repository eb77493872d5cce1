// Package bubbletea provides a Bubble Tea TUI for the chat client.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/chat"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// UpdateMsg carries a transcript snapshot for delivery to the Bubble Tea model.
type UpdateMsg struct {
	Update chat.Update
}

// SendDoneMsg signals that a request/response cycle has completed.
type SendDoneMsg struct {
	Err error
}
