package messagelist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maildeck/maildeck/internal/keys"
	"github.com/maildeck/maildeck/internal/model"
	"github.com/maildeck/maildeck/internal/store"
	"github.com/maildeck/maildeck/internal/theme"
)

// MessagesLoadedMsg is sent when the mailbox has been loaded from the store.
type MessagesLoadedMsg struct {
	Messages []model.Message
}

// SelectedMessageMsg is sent when the user opens a message for reading.
type SelectedMessageMsg struct {
	MessageID int64
}

// Model is the mailbox list view component.
type Model struct {
	list   list.Model
	store  store.Store
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new message list model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the mailbox.
func (m Model) Init() tea.Cmd {
	return m.LoadMessages()
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MessagesLoadedMsg:
		items := make([]list.Item, len(msg.Messages))
		for i, message := range msg.Messages {
			items[i] = MessageItem{Message: message}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Open) {
			item, ok := m.list.SelectedItem().(MessageItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedMessageMsg{MessageID: item.Message.ID}
			}
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn);
	// the cursor is clamped to the item range, never wrapping.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Mailbox is empty.")
	}
	return m.list.View()
}

// LoadMessages returns a tea.Cmd that reads the mailbox from the store.
func (m Model) LoadMessages() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		messages, err := s.ListMessages(context.Background())
		if err != nil {
			return MessagesLoadedMsg{Messages: nil}
		}
		return MessagesLoadedMsg{Messages: messages}
	}
}

// SelectedIndex returns the current cursor position.
func (m Model) SelectedIndex() int {
	return m.list.Index()
}

// Len returns the number of listed messages.
func (m Model) Len() int {
	return len(m.list.Items())
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
