package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maildeck/maildeck/internal/keys"
	"github.com/maildeck/maildeck/internal/model"
	"github.com/maildeck/maildeck/internal/store"
	"github.com/maildeck/maildeck/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// MessageLoadedMsg carries the loaded message.
type MessageLoadedMsg struct {
	Message *model.Message
}

// hScrollStep is how many columns a single horizontal scroll key moves.
const hScrollStep = 4

// Model is the message read view. Vertical scrolling is delegated to the
// viewport; horizontal scrolling is applied by re-rendering the content at
// an offset clamped to the longest line, so scrolling past the end of
// content is impossible.
type Model struct {
	message  *model.Message
	viewport viewport.Model
	store    store.Store
	keys     *keys.KeyMap
	lines    []string
	xOffset  int
	maxWidth int
	width    int
	height   int
	loading  bool
}

// New creates a new read view model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		store:    s,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the read view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Load returns a command that fetches the message with the given id.
func (m *Model) Load(id int64) tea.Cmd {
	m.loading = true
	s := m.store
	return func() tea.Msg {
		msg, err := s.GetMessageByID(context.Background(), id)
		if err != nil {
			return MessageLoadedMsg{Message: nil}
		}
		return MessageLoadedMsg{Message: msg}
	}
}

// Update handles messages for the read view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MessageLoadedMsg:
		m.message = msg.Message
		m.loading = false
		m.lines = m.contentLines()
		m.maxWidth = longestLine(m.lines)
		m.xOffset = 0
		m.viewport.SetContent(m.visibleContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.ScrollLeft):
			m.setXOffset(m.xOffset - hScrollStep)
			return m, nil

		case key.Matches(msg, m.keys.ScrollRight):
			m.setXOffset(m.xOffset + hScrollStep)
			return m, nil
		}
	}

	// Delegate to viewport for vertical scrolling (j/k, up/down, pgup/pgdn).
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the read view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading message...")
	}

	if m.message == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No message selected")
	}

	return m.viewport.View()
}

// XOffset returns the current horizontal scroll offset.
func (m Model) XOffset() int {
	return m.xOffset
}

// MaxXOffset returns the largest reachable horizontal offset for the
// current content and view width.
func (m Model) MaxXOffset() int {
	max := m.maxWidth - m.viewport.Width
	if max < 0 {
		return 0
	}
	return max
}

// setXOffset clamps the offset to [0, MaxXOffset] and re-renders.
func (m *Model) setXOffset(x int) {
	if max := m.MaxXOffset(); x > max {
		x = max
	}
	if x < 0 {
		x = 0
	}
	if x == m.xOffset {
		return
	}
	m.xOffset = x

	// Preserve the vertical position across the re-render.
	y := m.viewport.YOffset
	m.viewport.SetContent(m.visibleContent())
	m.viewport.SetYOffset(y)
}

// contentLines builds the display lines: a header block followed by the body.
func (m Model) contentLines() []string {
	if m.message == nil {
		return nil
	}

	msg := m.message
	header := []string{
		fmt.Sprintf("From:    %s", msg.From),
		fmt.Sprintf("To:      %s", msg.To),
		fmt.Sprintf("Subject: %s", msg.Subject),
		fmt.Sprintf("Date:    %s", msg.ReceivedAt.Format("Mon, 02 Jan 2006 15:04")),
		"",
	}
	return append(header, msg.BodyLines()...)
}

// visibleContent renders the content lines shifted by the horizontal offset.
func (m Model) visibleContent() string {
	out := make([]string, len(m.lines))
	for i, line := range m.lines {
		runes := []rune(line)
		if m.xOffset >= len(runes) {
			out[i] = ""
			continue
		}
		out[i] = string(runes[m.xOffset:])
	}

	// Style the header block after slicing so offsets count real columns.
	for i := 0; i < len(out) && i < 4; i++ {
		out[i] = theme.MessageHeaderStyle.Render(out[i])
	}

	return strings.Join(out, "\n")
}

// longestLine returns the rune length of the widest line.
func longestLine(lines []string) int {
	max := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > max {
			max = n
		}
	}
	return max
}

// SetSize updates the view dimensions and re-clamps the scroll offsets.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.xOffset > m.MaxXOffset() {
		m.setXOffset(m.MaxXOffset())
	}
}
