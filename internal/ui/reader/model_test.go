package reader

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maildeck/maildeck/internal/keys"
	"github.com/maildeck/maildeck/internal/model"
)

func loadedModel(t *testing.T, msg model.Message, width, height int) Model {
	t.Helper()

	m := New(nil, keys.DefaultKeyMap(), width, height)
	m, _ = m.Update(MessageLoadedMsg{Message: &msg})
	return m
}

func scrollKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHorizontalScrollClampsToContentBounds(t *testing.T) {
	long := strings.Repeat("x", 200)
	m := loadedModel(t, model.Message{Body: long}, 80, 24)

	// Scroll far past the end of the longest line.
	for i := 0; i < 100; i++ {
		m, _ = m.Update(scrollKey("l"))
	}
	assert.Equal(t, m.MaxXOffset(), m.XOffset())
	assert.LessOrEqual(t, m.XOffset(), 200-m.viewport.Width)

	// Scroll back far past the start.
	for i := 0; i < 100; i++ {
		m, _ = m.Update(scrollKey("h"))
	}
	assert.Equal(t, 0, m.XOffset())
}

func TestHorizontalScrollNoOpWhenContentFits(t *testing.T) {
	m := loadedModel(t, model.Message{Body: "short"}, 80, 24)

	require.Equal(t, 0, m.MaxXOffset())
	m, _ = m.Update(scrollKey("l"))
	assert.Equal(t, 0, m.XOffset())
}

func TestLoadResetsScrollState(t *testing.T) {
	long := strings.Repeat("y", 300)
	m := loadedModel(t, model.Message{Body: long}, 80, 24)

	for i := 0; i < 10; i++ {
		m, _ = m.Update(scrollKey("l"))
	}
	require.Greater(t, m.XOffset(), 0)

	m, _ = m.Update(MessageLoadedMsg{Message: &model.Message{Body: "fresh"}})
	assert.Equal(t, 0, m.XOffset())
	assert.Equal(t, 0, m.viewport.YOffset)
}

func TestBackKeyEmitsBackMsg(t *testing.T) {
	m := loadedModel(t, model.Message{Body: "hi"}, 80, 24)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(BackMsg)
	assert.True(t, ok)
}

func TestContentIncludesHeaderBlock(t *testing.T) {
	m := loadedModel(t, model.Message{
		From:    "bob@bob.me",
		To:      "me@me.me",
		Subject: "Hi",
		Body:    "Hello there",
	}, 80, 24)

	view := m.View()
	assert.Contains(t, view, "bob@bob.me")
	assert.Contains(t, view, "Hi")
	assert.Contains(t, view, "Hello there")
}
