package composeform

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maildeck/maildeck/internal/compose"
	"github.com/maildeck/maildeck/internal/keys"
	"github.com/maildeck/maildeck/internal/theme"
)

// SendRequestMsg asks the parent to dispatch the drafted message.
type SendRequestMsg struct {
	Snapshot compose.Snapshot
}

// CancelMsg signals the parent that the user abandoned the draft.
type CancelMsg struct{}

// Model is the compose view component. It owns the live draft for the
// duration of compose mode; while a send is pending the fields stay
// visible but frozen.
type Model struct {
	draft   *compose.Draft
	keys    *keys.KeyMap
	pending bool
	width   int
	height  int
}

// New creates a new compose view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   k,
		width:  width,
		height: height,
	}
}

// Start resets the view with a fresh empty draft, focused on the To
// field, not editing.
func (m *Model) Start() {
	m.draft = compose.New()
	m.draft.SetSize(m.width-12, m.height)
	m.pending = false
}

// Draft exposes the live draft for the parent's state checks.
func (m *Model) Draft() *compose.Draft {
	return m.draft
}

// SetPending freezes or unfreezes the form while a send is outstanding.
func (m *Model) SetPending(pending bool) {
	m.pending = pending
}

// Pending reports whether a send attempt is outstanding.
func (m Model) Pending() bool {
	return m.pending
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.draft == nil {
		return m, nil
	}

	// The draft is frozen while its snapshot is in flight.
	if m.pending {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.NextField):
		m.draft.AdvanceFocus()
		return m, nil

	case key.Matches(keyMsg, m.keys.Send):
		snap := m.draft.Snapshot()
		return m, func() tea.Msg {
			return SendRequestMsg{Snapshot: snap}
		}
	}

	if m.draft.Editing() {
		if key.Matches(keyMsg, m.keys.EndEdit) {
			m.draft.EndEdit()
			return m, nil
		}
		return m, m.draft.HandleKey(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Edit):
		return m, m.draft.BeginEdit()

	case key.Matches(keyMsg, m.keys.EndEdit):
		return m, func() tea.Msg {
			return CancelMsg{}
		}
	}

	// Any other key has no meaning here.
	return m, nil
}

// View renders the compose form.
func (m Model) View() string {
	if m.draft == nil {
		return ""
	}

	title := "New Message"
	if m.pending {
		title = "New Message (sending...)"
	}
	titleRendered := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render(title)

	rows := []string{titleRendered}
	for f := compose.FieldTo; f < compose.FieldCount; f++ {
		rows = append(rows, m.renderField(f))
	}

	hint := "tab: next field · enter: edit · esc: stop editing / cancel · ctrl+s: send"
	rows = append(rows, "", theme.HelpStyle.Render(hint))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderField draws one labeled field row, marking focus and edit state.
func (m Model) renderField(f compose.Field) string {
	label := theme.FieldLabelStyle
	marker := "  "
	switch {
	case m.draft.Focused() == f && m.draft.Editing():
		label = theme.EditingFieldLabelStyle
		marker = "> "
	case m.draft.Focused() == f:
		label = theme.FocusedFieldLabelStyle
		marker = "> "
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		marker,
		label.Render(f.Label()+":"),
		m.draft.FieldView(f),
	)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.draft != nil {
		m.draft.SetSize(width-12, height)
	}
}
