package snippetview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipted/snipterm/internal/api"
	"github.com/snipted/snipterm/internal/auth"
	"github.com/snipted/snipterm/internal/config"
	"github.com/snipted/snipterm/internal/ui/messages"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newOwnSnippetView(userID int64) Model {
	store := auth.NewStore()
	store.SetAuth(&api.User{ID: 1, Username: "ada"})
	m := New(config.Config{}, nil, nil, store)
	m.snippet = &api.Snippet{
		ID:     5,
		Title:  "t",
		Code:   "c",
		Author: &api.User{ID: userID, Username: "someone"},
	}
	return m
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m := newOwnSnippetView(1)

	m, cmd := m.Update(keyRune('d'))
	assert.Nil(t, cmd, "first press only arms the confirmation")
	assert.True(t, m.confirmDelete)
	assert.Contains(t, m.View(), "press d again")

	m, _ = m.Update(keyRune('j'))
	assert.False(t, m.confirmDelete, "any other key disarms it")

	m, _ = m.Update(keyRune('d'))
	m, cmd = m.Update(keyRune('d'))
	require.NotNil(t, cmd, "the second press issues the delete")
	assert.False(t, m.confirmDelete)
}

func TestEditAndDeleteAreOwnerOnly(t *testing.T) {
	m := newOwnSnippetView(2) // authored by someone else

	m, cmd := m.Update(keyRune('d'))
	assert.Nil(t, cmd)
	assert.False(t, m.confirmDelete)

	_, cmd = m.Update(keyRune('e'))
	assert.Nil(t, cmd)
	assert.NotContains(t, m.View(), "d delete")
}

func TestEditKeyOpensEditForOwnSnippet(t *testing.T) {
	m := newOwnSnippetView(1)

	m, cmd := m.Update(keyRune('e'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.OpenEditMsg)
	require.True(t, ok)
	assert.Equal(t, int64(5), msg.Snippet.ID)
	assert.Contains(t, m.View(), "e edit")
}
