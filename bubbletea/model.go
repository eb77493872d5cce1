package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/chat"
	"github.com/fwojciec/chat/bubbletea/textarea"
)

const (
	statusHeight = 1
	borderHeight = 2 // newlines between sections
	// maxInputHeight caps how far the input grows before it scrolls.
	maxInputHeight = 5
	// timeFormat renders turn creation times as HH:MM.
	timeFormat = "15:04"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the multi-line message editor. Exported for test access.
	Input textarea.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model
	// Spinner is shown while the assistant has not produced any text yet.
	Spinner spinner.Model

	conv   chat.Conversation
	styles Styles

	// turns is the last snapshot received. It is replaced wholesale on
	// every update and never patched in place.
	turns []chat.Turn

	running  bool
	cancel   context.CancelFunc
	updateCh chan chat.Update
	doneCh   chan error
	err      error
	ready    bool
	height   int // terminal height
}

// New creates a new TUI Model for the given conversation and theme.
func New(conv chat.Conversation, theme chat.Theme) Model {
	styles := NewStyles(theme)

	ta := textarea.New()
	ta.Placeholder = "Type your message... (Alt+Enter for new line)"
	ta.PlaceholderStyle = styles.Muted
	ta.MaxHeight = maxInputHeight
	ta.Focus()
	sp := spinner.New(
		spinner.WithSpinner(spinner.Points),
		spinner.WithStyle(styles.Accent),
	)

	return Model{
		Input:   ta,
		Spinner: sp,
		conv:    conv,
		styles:  styles,
	}
}

// Running returns whether a request/response cycle is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case textarea.InputHeightMsg:
		// Usually already applied by handleKey.
		m.layout()
		return m, nil

	case UpdateMsg:
		m.turns = msg.Update.Turns
		m.refresh()
		if m.updateCh != nil {
			return m, listenForUpdate(m.updateCh, m.doneCh)
		}
		return m, nil

	case SendDoneMsg:
		m.running = false
		m.cancel = nil
		m.updateCh = nil
		m.doneCh = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		// Updates may have been dropped after a cancel; the
		// conversation holds the final state.
		m.turns = m.conv.Snapshot().Turns
		m.refresh()
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		if m.waiting() {
			m.Viewport.SetContent(m.renderContent())
		}
		return m, cmd
	}

	// Pass remaining messages to sub-components.
	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	// Output area.
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")

	// Status line.
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	// Input area.
	b.WriteString(m.Input.View())

	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.height = msg.Height
	m.Input.SetWidth(msg.Width)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, 1)
		m.turns = m.conv.Snapshot().Turns
		m.ready = true
	}
	m.Viewport.Width = msg.Width
	m.layout()
	return m
}

// layout gives the viewport whatever height the input and status line
// leave free, then re-renders the transcript.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.Viewport.Height = max(m.height-m.Input.Height()-statusHeight-borderHeight, 1)
	m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyCtrlL:
		if m.running {
			return m, nil
		}
		if err := m.conv.Clear(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.turns = nil
		m.refresh()
		return m, nil

	case tea.KeyEnter:
		if msg.Alt {
			// Alt+Enter is a line break for the input.
			break
		}
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)
	}

	// When idle, pass keys to both input (for typing) and viewport
	// (for scrolling). Only forward non-character keys to viewport to avoid
	// conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		// The input may have grown or shrunk.
		before := m.Input.Height()
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
		if m.Input.Height() != before {
			m.layout()
		}

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.Reset()
	m.layout()
	m.err = nil

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.updateCh = make(chan chat.Update, 256)
	m.doneCh = make(chan error, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startSend(ctx, m.conv, text, m.updateCh, m.doneCh),
		listenForUpdate(m.updateCh, m.doneCh),
		m.Spinner.Tick,
	)
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
}

// waiting reports whether the assistant turn is streaming with no text yet.
func (m Model) waiting() bool {
	if len(m.turns) == 0 {
		return false
	}
	last := m.turns[len(m.turns)-1]
	return last.Role == chat.RoleAssistant && !last.Complete && last.Content == ""
}

func (m Model) renderContent() string {
	if len(m.turns) == 0 {
		return m.renderWelcome()
	}
	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderTurn(t, m.Viewport.Width))
	}
	return b.String()
}

// renderWelcome fills the empty viewport with a centred greeting.
func (m Model) renderWelcome() string {
	greeting := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Accent.Bold(true).Render("Welcome to AI Assistant"),
		"",
		m.styles.Muted.Render(wrap("Ask me anything and I'll help you out!", m.Viewport.Width)),
	)
	return lipgloss.Place(m.Viewport.Width, m.Viewport.Height, lipgloss.Center, lipgloss.Center, greeting)
}

// renderTurn renders one transcript entry as plain wrapped text, followed
// by its creation time when known.
func (m Model) renderTurn(t chat.Turn, width int) string {
	var body string
	pad := ""
	switch {
	case t.Role == chat.RoleUser:
		body = m.styles.UserMsg.Render("> ") + indent(wrap(t.Content, width-2), "  ")
		pad = "  "
	case !t.Complete && t.Content == "":
		body = m.Spinner.View()
	case t.Complete && t.Content == chat.ErrorMessage:
		body = m.styles.Error.Render(wrap(t.Content, width))
	default:
		body = m.styles.Assistant.Render(wrap(t.Content, width))
	}
	if t.Created.IsZero() {
		return body
	}
	return body + "\n" + pad + m.styles.Muted.Render(t.Created.Format(timeFormat))
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.running {
		return m.styles.Muted.Render("Generating...")
	}
	return m.styles.Muted.Render("Enter to send, Alt+Enter for new line, Ctrl+L to clear, Ctrl+C to quit")
}

// startSend runs one conversation cycle in a goroutine and signals completion.
func startSend(ctx context.Context, conv chat.Conversation, text string, updateCh chan<- chat.Update, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := conv.Send(ctx, text, func(u chat.Update) {
			select {
			case updateCh <- u:
			case <-ctx.Done():
			}
		})
		close(updateCh)
		doneCh <- err
		return nil
	}
}

// listenForUpdate waits for the next snapshot from the channel.
// When the channel closes, it reads the error from doneCh and returns SendDoneMsg.
func listenForUpdate(ch <-chan chat.Update, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			err := <-doneCh
			return SendDoneMsg{Err: err}
		}
		return UpdateMsg{Update: u}
	}
}
