// Package textarea provides the multi-line message editor of the chat TUI.
//
// Adapted from the charmbracelet/bubbles textarea. Plain Enter is left to
// the parent so it can submit the message; Alt+Enter and Ctrl+J break the
// line. The editor grows with its content up to MaxHeight rows and reports
// every height change with an InputHeightMsg.
package textarea

import (
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/runeutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	rw "github.com/mattn/go-runewidth"
)

const (
	defaultWidth     = 40
	defaultMaxHeight = 5
)

// InputHeightMsg is emitted when the number of visible rows changes.
type InputHeightMsg struct {
	Height int
}

// Blink starts the cursor blink. Return it from the parent's Init.
func Blink() tea.Msg {
	return cursor.Blink()
}

// KeyMap is the set of editing bindings.
type KeyMap struct {
	CharacterForward        key.Binding
	CharacterBackward       key.Binding
	WordForward             key.Binding
	WordBackward            key.Binding
	LineNext                key.Binding
	LinePrevious            key.Binding
	LineStart               key.Binding
	LineEnd                 key.Binding
	DeleteCharacterBackward key.Binding
	DeleteCharacterForward  key.Binding
	DeleteWordBackward      key.Binding
	DeleteBeforeCursor      key.Binding
	DeleteAfterCursor       key.Binding
	InsertNewline           key.Binding
}

// DefaultKeyMap is the emacs-flavoured default.
var DefaultKeyMap = KeyMap{
	CharacterForward:        key.NewBinding(key.WithKeys("right", "ctrl+f")),
	CharacterBackward:       key.NewBinding(key.WithKeys("left", "ctrl+b")),
	WordForward:             key.NewBinding(key.WithKeys("alt+right", "alt+f")),
	WordBackward:            key.NewBinding(key.WithKeys("alt+left", "alt+b")),
	LineNext:                key.NewBinding(key.WithKeys("down", "ctrl+n")),
	LinePrevious:            key.NewBinding(key.WithKeys("up", "ctrl+p")),
	LineStart:               key.NewBinding(key.WithKeys("home", "ctrl+a")),
	LineEnd:                 key.NewBinding(key.WithKeys("end", "ctrl+e")),
	DeleteCharacterBackward: key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
	DeleteCharacterForward:  key.NewBinding(key.WithKeys("delete", "ctrl+d")),
	DeleteWordBackward:      key.NewBinding(key.WithKeys("alt+backspace", "ctrl+w")),
	DeleteBeforeCursor:      key.NewBinding(key.WithKeys("ctrl+u")),
	DeleteAfterCursor:       key.NewBinding(key.WithKeys("ctrl+k")),
	InsertNewline:           key.NewBinding(key.WithKeys("alt+enter", "ctrl+j")),
}

// Model is the editor state.
type Model struct {
	// Placeholder is shown while the editor is empty.
	Placeholder      string
	PlaceholderStyle lipgloss.Style

	// MaxHeight caps the number of visible rows. Content beyond it scrolls.
	MaxHeight int

	KeyMap KeyMap
	Cursor cursor.Model

	lines  [][]rune // hard lines; never empty
	row    int      // cursor line
	col    int      // cursor rune offset within the line
	width  int
	height int // visible rows
	offset int // first visible row
	focus  bool
	cache  *segmentCache
	rsan   runeutil.Sanitizer
}

// New creates an empty, blurred editor. The zero Model is not usable.
func New() Model {
	return Model{
		MaxHeight: defaultMaxHeight,
		KeyMap:    DefaultKeyMap,
		Cursor:    cursor.New(),
		lines:     [][]rune{{}},
		width:     defaultWidth,
		height:    1,
		cache:     newSegmentCache(),
		rsan:      runeutil.NewSanitizer(runeutil.ReplaceTabs("    ")),
	}
}

// Value returns the text with lines joined by "\n".
func (m Model) Value() string {
	var b strings.Builder
	for i, l := range m.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(l))
	}
	return b.String()
}

// SetValue replaces the text and moves the cursor to its end.
func (m *Model) SetValue(s string) {
	m.Reset()
	m.insertRunes([]rune(s))
	m.fit()
}

// Reset empties the editor and shrinks it back to one row.
func (m *Model) Reset() {
	m.lines = [][]rune{{}}
	m.row, m.col = 0, 0
	m.offset = 0
	m.height = 1
}

// LineCount returns the number of hard lines.
func (m Model) LineCount() int { return len(m.lines) }

// Width returns the editor width in cells.
func (m Model) Width() int { return m.width }

// Height returns the number of visible rows.
func (m Model) Height() int { return m.height }

// SetWidth sets the editor width and refits the height.
func (m *Model) SetWidth(w int) {
	m.width = max(w, 1)
	m.fit()
}

// Focused reports whether the editor accepts keys.
func (m Model) Focused() bool { return m.focus }

// Focus makes the editor accept keys.
func (m *Model) Focus() tea.Cmd {
	m.focus = true
	return m.Cursor.Focus()
}

// Blur stops the editor from accepting keys.
func (m *Model) Blur() {
	m.focus = false
	m.Cursor.Blur()
}

// Update handles key and cursor blink messages. Plain Enter is ignored.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focus {
		m.Cursor.Blur()
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.KeyMap.InsertNewline):
			m.insertRunes([]rune{'\n'})
		case key.Matches(msg, m.KeyMap.DeleteCharacterBackward):
			m.deleteBackward()
		case key.Matches(msg, m.KeyMap.DeleteCharacterForward):
			m.deleteForward()
		case key.Matches(msg, m.KeyMap.DeleteWordBackward):
			m.deleteWordBackward()
		case key.Matches(msg, m.KeyMap.DeleteBeforeCursor):
			m.lines[m.row] = slices.Clone(m.lines[m.row][m.col:])
			m.col = 0
		case key.Matches(msg, m.KeyMap.DeleteAfterCursor):
			m.lines[m.row] = m.lines[m.row][:m.col]
		case key.Matches(msg, m.KeyMap.CharacterForward):
			m.characterRight()
		case key.Matches(msg, m.KeyMap.CharacterBackward):
			m.characterLeft()
		case key.Matches(msg, m.KeyMap.WordForward):
			m.wordRight()
		case key.Matches(msg, m.KeyMap.WordBackward):
			m.wordLeft()
		case key.Matches(msg, m.KeyMap.LineNext):
			if m.row < len(m.lines)-1 {
				m.row++
				m.col = min(m.col, len(m.lines[m.row]))
			}
		case key.Matches(msg, m.KeyMap.LinePrevious):
			if m.row > 0 {
				m.row--
				m.col = min(m.col, len(m.lines[m.row]))
			}
		case key.Matches(msg, m.KeyMap.LineStart):
			m.col = 0
		case key.Matches(msg, m.KeyMap.LineEnd):
			m.col = len(m.lines[m.row])
		default:
			m.insertRunes(msg.Runes)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Cursor, cmd = m.Cursor.Update(msg)
	cmds = append(cmds, cmd)
	if m.fit() {
		h := m.height
		cmds = append(cmds, func() tea.Msg { return InputHeightMsg{Height: h} })
	}
	return m, tea.Batch(cmds...)
}

// View renders the visible rows.
func (m Model) View() string {
	if m.Value() == "" && m.Placeholder != "" {
		return m.placeholderView()
	}
	rows := m.render()
	end := min(m.offset+m.height, len(rows))
	visible := rows[m.offset:end]
	for len(visible) < m.height {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

func (m Model) placeholderView() string {
	p := []rune(rw.Truncate(m.Placeholder, m.width, "…"))
	if len(p) == 0 {
		p = []rune{' '}
	}
	cur := m.Cursor
	cur.TextStyle = m.PlaceholderStyle
	cur.SetChar(string(p[0]))
	return cur.View() + m.PlaceholderStyle.Render(string(p[1:]))
}

// render lays out every row, drawing the cursor over its cell. The cursor
// line carries one extra cell so the cursor has room at the end of a line.
func (m Model) render() []string {
	var rows []string
	for i, line := range m.lines {
		if i != m.row {
			starts := m.cache.segments(line, m.width)
			for j, start := range starts {
				rows = append(rows, string(line[start:segmentEnd(starts, j, len(line))]))
			}
			continue
		}
		cells := append(slices.Clone(line), ' ')
		starts := m.cache.segments(cells, m.width)
		for j, start := range starts {
			end := segmentEnd(starts, j, len(cells))
			if m.col < start || m.col >= end {
				rows = append(rows, string(cells[start:end]))
				continue
			}
			cur := m.Cursor
			cur.SetChar(string(cells[m.col]))
			rows = append(rows, string(cells[start:m.col])+cur.View()+string(cells[m.col+1:end]))
		}
	}
	return rows
}

// layout returns the total number of rows and the row holding the cursor.
func (m Model) layout() (count, cursorRow int) {
	for i, line := range m.lines {
		if i != m.row {
			count += len(m.cache.segments(line, m.width))
			continue
		}
		starts := m.cache.segments(append(slices.Clone(line), ' '), m.width)
		for j, start := range starts {
			if start <= m.col {
				cursorRow = count + j
			}
		}
		count += len(starts)
	}
	return count, cursorRow
}

// fit sizes the editor to its content, capped at MaxHeight, and scrolls the
// cursor into view. It reports whether the height changed.
func (m *Model) fit() bool {
	count, cur := m.layout()
	h := min(max(count, 1), max(m.MaxHeight, 1))
	changed := h != m.height
	m.height = h

	if cur < m.offset {
		m.offset = cur
	}
	if cur >= m.offset+m.height {
		m.offset = cur - m.height + 1
	}
	m.offset = min(m.offset, max(count-m.height, 0))
	return changed
}

// insertRunes inserts sanitized runes at the cursor, splitting lines on '\n'.
func (m *Model) insertRunes(runes []rune) {
	runes = slices.DeleteFunc(slices.Clone(runes), func(r rune) bool { return r == '\r' })
	runes = m.rsan.Sanitize(runes)
	if len(runes) == 0 {
		return
	}
	parts := splitLines(runes)

	line := m.lines[m.row]
	tail := slices.Clone(line[m.col:])
	head := append(line[:m.col:m.col], parts[0]...)
	if len(parts) == 1 {
		m.lines[m.row] = append(head, tail...)
		m.col = len(head)
		return
	}

	last := parts[len(parts)-1]
	replaced := make([][]rune, 0, len(parts))
	replaced = append(replaced, head)
	replaced = append(replaced, parts[1:len(parts)-1]...)
	replaced = append(replaced, append(slices.Clone(last), tail...))
	m.lines = slices.Replace(m.lines, m.row, m.row+1, replaced...)
	m.row += len(parts) - 1
	m.col = len(last)
}

func (m *Model) deleteBackward() {
	if m.col > 0 {
		m.lines[m.row] = slices.Delete(m.lines[m.row], m.col-1, m.col)
		m.col--
		return
	}
	if m.row == 0 {
		return
	}
	prev := m.lines[m.row-1]
	m.col = len(prev)
	m.lines[m.row-1] = append(prev, m.lines[m.row]...)
	m.lines = slices.Delete(m.lines, m.row, m.row+1)
	m.row--
}

func (m *Model) deleteForward() {
	line := m.lines[m.row]
	if m.col < len(line) {
		m.lines[m.row] = slices.Delete(line, m.col, m.col+1)
		return
	}
	if m.row == len(m.lines)-1 {
		return
	}
	m.lines[m.row] = append(line, m.lines[m.row+1]...)
	m.lines = slices.Delete(m.lines, m.row+1, m.row+2)
}

func (m *Model) deleteWordBackward() {
	if m.col == 0 {
		m.deleteBackward()
		return
	}
	line := m.lines[m.row]
	start := m.col
	for start > 0 && unicode.IsSpace(line[start-1]) {
		start--
	}
	for start > 0 && !unicode.IsSpace(line[start-1]) {
		start--
	}
	m.lines[m.row] = slices.Delete(line, start, m.col)
	m.col = start
}

func (m *Model) characterLeft() {
	switch {
	case m.col > 0:
		m.col--
	case m.row > 0:
		m.row--
		m.col = len(m.lines[m.row])
	}
}

func (m *Model) characterRight() {
	switch {
	case m.col < len(m.lines[m.row]):
		m.col++
	case m.row < len(m.lines)-1:
		m.row++
		m.col = 0
	}
}

func (m *Model) wordLeft() {
	line := m.lines[m.row]
	for m.col > 0 && unicode.IsSpace(line[m.col-1]) {
		m.col--
	}
	for m.col > 0 && !unicode.IsSpace(line[m.col-1]) {
		m.col--
	}
}

func (m *Model) wordRight() {
	line := m.lines[m.row]
	for m.col < len(line) && unicode.IsSpace(line[m.col]) {
		m.col++
	}
	for m.col < len(line) && !unicode.IsSpace(line[m.col]) {
		m.col++
	}
}

func splitLines(runes []rune) [][]rune {
	parts := [][]rune{{}}
	for _, r := range runes {
		if r == '\n' {
			parts = append(parts, []rune{})
			continue
		}
		parts[len(parts)-1] = append(parts[len(parts)-1], r)
	}
	return parts
}
