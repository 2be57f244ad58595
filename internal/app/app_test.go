package app

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maildeck/maildeck/internal/compose"
	"github.com/maildeck/maildeck/internal/mail"
	"github.com/maildeck/maildeck/internal/model"
	"github.com/maildeck/maildeck/internal/send"
	"github.com/maildeck/maildeck/internal/ui/composeform"
	"github.com/maildeck/maildeck/internal/ui/messagelist"
	"github.com/maildeck/maildeck/internal/ui/reader"
)

// scriptedMailer returns a fixed error from Send.
type scriptedMailer struct {
	err error
}

func (f scriptedMailer) Send(_ context.Context, _ mail.Outgoing) error {
	return f.err
}

func sampleMailbox() []model.Message {
	return []model.Message{
		{ID: 1, From: "bob@bob.me", To: "me@me.me", Subject: "Hi", Body: "Hello there"},
		{ID: 2, From: "alice@alice.me", To: "me@me.me", Subject: "TPS Reports", Body: "Memo"},
		{ID: 3, From: "carol@example.net", To: "me@me.me", Subject: "Lunch", Body: "Noodles"},
	}
}

// newTestApp builds a root model with a loaded three-message mailbox.
func newTestApp(t *testing.T, mailerErr error) Model {
	t.Helper()

	m := New(nil, send.NewDispatcher(scriptedMailer{err: mailerErr}))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	next, _ = next.Update(messagelist.MessagesLoadedMsg{Messages: sampleMailbox()})
	return next.(Model)
}

func sendKey(t *testing.T, m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(key)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeInto begins an edit on the focused field, types s, and leaves the
// model ready for the next instruction.
func typeInto(t *testing.T, m Model, s string) Model {
	t.Helper()

	m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	for _, r := range s {
		m, _ = sendKey(t, m, runes(string(r)))
	}
	return m
}

// composeDraft drives the UI from the list into a fully filled draft.
func composeDraft(t *testing.T, m Model, to, from, subject, body string) Model {
	t.Helper()

	m, _ = sendKey(t, m, runes("c"))
	require.Equal(t, ViewCompose, m.CurrentView())

	for _, text := range []string{to, from, subject, body} {
		m = typeInto(t, m, text)
		m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	return m
}

// submit presses send, then pumps the resulting command chain until the
// dispatcher outcome has been processed, mirroring the runtime's loop.
func submit(t *testing.T, m Model) Model {
	t.Helper()

	m, cmd := sendKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	reqMsg := cmd()
	req, ok := reqMsg.(composeform.SendRequestMsg)
	require.True(t, ok, "expected SendRequestMsg, got %T", reqMsg)

	next, sendCmd := m.Update(req)
	m = next.(Model)
	require.NotNil(t, sendCmd)
	require.True(t, m.composeView.Pending())

	outcome := sendCmd()
	result, ok := outcome.(send.ResultMsg)
	require.True(t, ok, "expected ResultMsg, got %T", outcome)

	next, _ = m.Update(result)
	return next.(Model)
}

func TestSelectionClampedToMailboxBounds(t *testing.T) {
	m := newTestApp(t, nil)

	// Moving up from the first message stays at index 0.
	m, _ = sendKey(t, m, runes("k"))
	assert.Equal(t, 0, m.messageList.SelectedIndex())

	// Two moves down from 0 land on the last index.
	m, _ = sendKey(t, m, runes("j"))
	m, _ = sendKey(t, m, runes("j"))
	assert.Equal(t, 2, m.messageList.SelectedIndex())

	// Another move down stays clamped at the last index.
	m, _ = sendKey(t, m, runes("j"))
	assert.Equal(t, 2, m.messageList.SelectedIndex())
}

func TestOpenSelectedEntersReadAndBackReturns(t *testing.T) {
	m := newTestApp(t, nil)

	_, cmd := sendKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	sel, ok := cmd().(messagelist.SelectedMessageMsg)
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.MessageID)

	next, _ := m.Update(sel)
	m = next.(Model)
	assert.Equal(t, ViewRead, m.CurrentView())

	next, _ = m.Update(reader.BackMsg{})
	m = next.(Model)
	assert.Equal(t, ViewList, m.CurrentView())
}

func TestComposeTypingAndFieldAdvance(t *testing.T) {
	m := newTestApp(t, nil)

	m, _ = sendKey(t, m, runes("c"))
	require.Equal(t, ViewCompose, m.CurrentView())

	draft := m.composeView.Draft()
	require.NotNil(t, draft)
	assert.Equal(t, compose.FieldTo, draft.Focused())

	m = typeInto(t, m, "abc")
	assert.Equal(t, "abc", m.composeView.Draft().Value(compose.FieldTo))

	m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	draft = m.composeView.Draft()
	assert.Equal(t, compose.FieldFrom, draft.Focused())
	assert.False(t, draft.Editing())
}

func TestComposeCancelReturnsToList(t *testing.T) {
	m := newTestApp(t, nil)

	m, _ = sendKey(t, m, runes("c"))
	m = typeInto(t, m, "x@example.com")

	// First esc ends the edit, second esc abandons the draft.
	m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, cmd := sendKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	cancel, ok := cmd().(composeform.CancelMsg)
	require.True(t, ok)

	next, _ := m.Update(cancel)
	m = next.(Model)
	assert.Equal(t, ViewList, m.CurrentView())
}

func TestSendSuccessReturnsToListWithStatus(t *testing.T) {
	m := newTestApp(t, nil)
	m = composeDraft(t, m, "x@example.com", "y@example.com", "s", "b")

	m = submit(t, m)

	assert.Equal(t, ViewList, m.CurrentView())
	assert.Equal(t, SeveritySuccess, m.StatusLine().Severity)
	assert.Contains(t, m.StatusLine().Text, "x@example.com")
	assert.False(t, m.composeView.Pending())

	// Re-entering compose starts from a fresh, empty draft.
	m, _ = sendKey(t, m, runes("c"))
	assert.Empty(t, m.composeView.Draft().Value(compose.FieldTo))
}

func TestSendFailureKeepsDraftAndReportsReason(t *testing.T) {
	m := newTestApp(t, errors.New("connection refused"))
	m = composeDraft(t, m, "x@example.com", "y@example.com", "s", "b")

	m = submit(t, m)

	assert.Equal(t, ViewCompose, m.CurrentView())
	assert.Equal(t, SeverityError, m.StatusLine().Severity)
	assert.Contains(t, m.StatusLine().Text, "connection refused")

	draft := m.composeView.Draft()
	assert.Equal(t, "x@example.com", draft.Value(compose.FieldTo))
	assert.Equal(t, "y@example.com", draft.Value(compose.FieldFrom))
	assert.Equal(t, "s", draft.Value(compose.FieldSubject))
	assert.Equal(t, "b", draft.Value(compose.FieldBody))
	assert.False(t, m.composeView.Pending())
}

func TestDraftFrozenWhileSendPending(t *testing.T) {
	m := newTestApp(t, nil)
	m = composeDraft(t, m, "x@example.com", "y@example.com", "s", "b")

	m, cmd := sendKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	req := cmd().(composeform.SendRequestMsg)
	next, _ := m.Update(req)
	m = next.(Model)
	require.True(t, m.composeView.Pending())

	// Keystrokes while the attempt is outstanding are dropped.
	m = typeInto(t, m, "zzz")
	assert.Equal(t, "x@example.com", m.composeView.Draft().Value(compose.FieldTo))

	// A second send request is refused while the first is in flight.
	_, resend := sendKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, resend)
}

func TestInterruptQuitsFromAnyView(t *testing.T) {
	m := newTestApp(t, nil)

	for _, enter := range []tea.KeyMsg{runes("c"), tea.KeyMsg{Type: tea.KeyEnter}} {
		fresh := newTestApp(t, nil)
		fresh, _ = sendKey(t, fresh, enter)

		_, cmd := sendKey(t, fresh, tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}

	_, cmd := sendKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestInterruptWhileSendPendingQuitsImmediately(t *testing.T) {
	m := newTestApp(t, nil)
	m = composeDraft(t, m, "x@example.com", "y@example.com", "s", "b")

	m, cmd := sendKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	req := cmd().(composeform.SendRequestMsg)
	next, _ := m.Update(req)
	m = next.(Model)
	require.True(t, m.composeView.Pending())

	// The interrupt wins without awaiting the outstanding attempt.
	_, quit := sendKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, quit)
	assert.Equal(t, tea.QuitMsg{}, quit())
}

func TestQuitFromListOnly(t *testing.T) {
	m := newTestApp(t, nil)

	// q quits from the list view.
	_, cmd := sendKey(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	// In the read view, q navigates back instead of quitting.
	next, _ := m.Update(messagelist.SelectedMessageMsg{MessageID: 1})
	m = next.(Model)
	require.Equal(t, ViewRead, m.CurrentView())

	_, cmd = sendKey(t, m, runes("q"))
	require.NotNil(t, cmd)
	_, isBack := cmd().(reader.BackMsg)
	assert.True(t, isBack)
}

func TestStatusClearedOnNextUserAction(t *testing.T) {
	m := newTestApp(t, errors.New("connection refused"))
	m = composeDraft(t, m, "x@example.com", "y@example.com", "s", "b")
	m = submit(t, m)
	require.Equal(t, SeverityError, m.StatusLine().Severity)

	m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Empty(t, m.StatusLine().Text)
}

func TestMeaninglessKeysIgnored(t *testing.T) {
	m := newTestApp(t, nil)

	before := m.messageList.SelectedIndex()
	m, _ = sendKey(t, m, runes("z"))
	assert.Equal(t, before, m.messageList.SelectedIndex())
	assert.Equal(t, ViewList, m.CurrentView())
}
