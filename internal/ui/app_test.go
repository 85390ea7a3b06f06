package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipted/snipterm/internal/api"
	"github.com/snipted/snipterm/internal/cache"
	"github.com/snipted/snipterm/internal/config"
	"github.com/snipted/snipterm/internal/ui/messages"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	db, err := cache.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Nothing in these tests runs a command, so the client never dials.
	client, err := api.NewClient("http://127.0.0.1:1/api/v1")
	require.NoError(t, err)

	cfg := config.Config{
		SessionPath: filepath.Join(dir, "session.json"),
		SnippetTTL:  time.Minute,
		ListTTL:     time.Minute,
		UserTTL:     time.Minute,
		PageSize:    30,
	}
	app := NewApp(cfg, client, db)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestCreateFormRecoversAfterSessionExpiry(t *testing.T) {
	app := newTestApp(t)
	app.store.SetAuth(&api.User{ID: 1, Username: "ada"})

	app.Update(keyRune('c'))
	require.Equal(t, ViewCreate, app.activeView)

	// Fill title and code, then submit.
	app.Update(keyRune('t'))
	for i := 0; i < 4; i++ {
		app.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	app.Update(keyRune('x'))
	app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Contains(t, app.View(), "Publishing...")

	app.Update(messages.SnippetCreatedMsg{Err: &api.Error{Status: 401}})

	view := app.View()
	assert.NotContains(t, view, "Publishing...", "the form must leave its submitting state")
	assert.Contains(t, view, "Session expired")
	assert.False(t, app.store.Authenticated())
	assert.Equal(t, ViewCreate, app.activeView, "the draft stays on screen")
}

func TestDeletedSnippetReturnsToList(t *testing.T) {
	app := newTestApp(t)
	app.store.SetAuth(&api.User{ID: 1, Username: "ada"})
	require.NoError(t, app.cache.PutSnippet(&api.Snippet{ID: 5, Title: "t", Code: "c"}))

	app.Update(messages.OpenSnippetMsg{ID: 5})
	require.Equal(t, ViewSnippetDetail, app.activeView)

	app.Update(messages.SnippetDeletedMsg{SnippetID: 5})
	assert.Equal(t, ViewSnippetList, app.activeView)

	cached, _, err := app.cache.GetSnippet(5, time.Minute)
	require.NoError(t, err)
	assert.Nil(t, cached, "a deleted snippet leaves the cache")
}

func TestDeleteOfAlreadyGoneSnippetIsNotAnError(t *testing.T) {
	app := newTestApp(t)
	app.store.SetAuth(&api.User{ID: 1, Username: "ada"})

	app.Update(messages.OpenSnippetMsg{ID: 9})
	app.Update(messages.SnippetDeletedMsg{SnippetID: 9, Err: &api.Error{Status: 404}})

	assert.Equal(t, ViewSnippetList, app.activeView)
	assert.True(t, app.store.Authenticated(), "a 404 is not a session problem")
}
