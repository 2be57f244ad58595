package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maildeck/maildeck/internal/keys"
	"github.com/maildeck/maildeck/internal/send"
	"github.com/maildeck/maildeck/internal/store"
	"github.com/maildeck/maildeck/internal/ui"
	"github.com/maildeck/maildeck/internal/ui/composeform"
	"github.com/maildeck/maildeck/internal/ui/messagelist"
	"github.com/maildeck/maildeck/internal/ui/reader"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewRead
	ViewCompose
)

// label returns the header label for the view.
func (v ViewState) label() string {
	switch v {
	case ViewList:
		return "INBOX"
	case ViewRead:
		return "READ"
	case ViewCompose:
		return "COMPOSE"
	default:
		return ""
	}
}

// Model is the root Bubble Tea model: the session state machine that
// routes input to the active view and owns the status line.
type Model struct {
	currentView ViewState
	layout      ui.Layout
	store       store.Store
	keys        *keys.KeyMap
	messageList messagelist.Model
	readerView  reader.Model
	composeView composeform.Model
	dispatcher  *send.Dispatcher
	status      Status
	ready       bool
}

// New creates the root application model with the given store and
// send dispatcher.
func New(s store.Store, d *send.Dispatcher) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewList,
		store:       s,
		keys:        k,
		messageList: messagelist.New(s, k, 80, 24),
		readerView:  reader.New(s, k, 80, 24),
		composeView: composeform.New(k, 80, 24),
		dispatcher:  d,
	}
}

// Init returns the initial command that loads the mailbox.
func (m Model) Init() tea.Cmd {
	return m.messageList.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.messageList.SetSize(contentWidth, contentHeight)
		m.readerView.SetSize(contentWidth, contentHeight)
		m.composeView.SetSize(contentWidth, contentHeight)
		return m, nil

	case messagelist.MessagesLoadedMsg:
		var cmd tea.Cmd
		m.messageList, cmd = m.messageList.Update(msg)
		return m, cmd

	case messagelist.SelectedMessageMsg:
		m.currentView = ViewRead
		return m, m.readerView.Load(msg.MessageID)

	case reader.MessageLoadedMsg:
		var cmd tea.Cmd
		m.readerView, cmd = m.readerView.Update(msg)
		return m, cmd

	case reader.BackMsg:
		m.currentView = ViewList
		return m, nil

	case composeform.SendRequestMsg:
		// One attempt at a time; the draft stays visible but frozen
		// until the outcome comes back.
		cmd := m.dispatcher.Submit(msg.Snapshot)
		if cmd == nil {
			return m, nil
		}
		m.composeView.SetPending(true)
		m.status = Status{Text: "Sending...", Severity: SeverityPending}
		return m, cmd

	case composeform.CancelMsg:
		m.currentView = ViewList
		m.status = Status{}
		return m, nil

	case send.ResultMsg:
		m.composeView.SetPending(false)
		if msg.Err != nil {
			// Draft retained; the user can edit and resend.
			m.status = Status{
				Text:     "Send failed: " + msg.Err.Error(),
				Severity: SeverityError,
			}
			return m, nil
		}
		m.currentView = ViewList
		m.status = Status{
			Text:     "Message sent to " + msg.Snapshot.To,
			Severity: SeveritySuccess,
		}
		return m, nil

	case tea.KeyMsg:
		// The interrupt takes precedence over everything, including an
		// outstanding send, whose outcome is abandoned on the way out.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Any other user action replaces the previous status line.
		if m.status.Severity != SeverityPending {
			m.status = Status{}
		}

		switch msg.String() {
		case "q":
			if m.currentView == ViewList {
				return m, tea.Quit
			}

		case "c":
			if m.currentView == ViewList {
				m.currentView = ViewCompose
				m.composeView.Start()
				return m, nil
			}
		}
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.messageList, cmd = m.messageList.Update(msg)
	case ViewRead:
		m.readerView, cmd = m.readerView.Update(msg)
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("maildeck", m.currentView.label())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(
		m.status.Text, string(m.status.Severity), m.keyHints(),
	)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.messageList.View()
	case ViewRead:
		return m.readerView.View()
	case ViewCompose:
		return m.composeView.View()
	default:
		return ""
	}
}

// keyHints returns the status-bar hint line for the current view.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewList:
		return "j/k: navigate · enter: read · c: compose · q: quit"
	case ViewRead:
		return "j/k: scroll · h/l: scroll sideways · esc: back"
	case ViewCompose:
		return "tab: field · enter: edit · esc: done/cancel · ctrl+s: send"
	default:
		return ""
	}
}

// CurrentView exposes the active view for tests.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// StatusLine exposes the current status for tests.
func (m Model) StatusLine() Status {
	return m.status
}
