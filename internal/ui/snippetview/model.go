package snippetview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snipted/snipterm/internal/api"
	"github.com/snipted/snipterm/internal/auth"
	"github.com/snipted/snipterm/internal/cache"
	"github.com/snipted/snipterm/internal/config"
	"github.com/snipted/snipterm/internal/render"
	"github.com/snipted/snipterm/internal/ui/messages"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	likeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF69B4"))
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#20B2AA"))
	codeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0D0A0"))
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// Model is the single-snippet view.
type Model struct {
	viewport      viewport.Model
	snippet       *api.Snippet
	err           error
	confirmDelete bool
	client        *api.Client
	cache         *cache.DB
	store         *auth.Store
	cfg           config.Config
	width         int
	height        int
}

// New creates a snippet detail view.
func New(cfg config.Config, client *api.Client, db *cache.DB, store *auth.Store) Model {
	return Model{
		viewport: viewport.New(0, 0),
		client:   client,
		cache:    db,
		store:    store,
		cfg:      cfg,
	}
}

// Init loads the snippet, serving cache first when fresh.
func (m Model) Init(id int64) tea.Cmd {
	client := m.client
	db := m.cache
	ttl := m.cfg.SnippetTTL
	return func() tea.Msg {
		if s, fresh, _ := db.GetSnippet(id, ttl); fresh && s != nil && s.Code != "" {
			return messages.SnippetLoadedMsg{Snippet: s}
		}
		s, err := client.GetSnippet(context.Background(), id)
		if err != nil {
			// A stale copy beats an error page.
			if cached, _, _ := db.GetSnippet(id, ttl); cached != nil {
				return messages.SnippetLoadedMsg{Snippet: cached}
			}
			return messages.SnippetLoadedMsg{Err: err}
		}
		db.PutSnippet(s)
		return messages.SnippetLoadedMsg{Snippet: s}
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 1
	if m.snippet != nil {
		m.viewport.SetContent(m.renderSnippet())
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SnippetLoadedMsg:
		m.err = msg.Err
		m.snippet = msg.Snippet
		if m.snippet != nil {
			m.viewport.SetContent(m.renderSnippet())
			m.viewport.GotoTop()
		}
		return m, nil

	case messages.LikeResultMsg:
		if msg.Err != nil || m.snippet == nil || m.snippet.ID != msg.SnippetID {
			return m, nil
		}
		if m.snippet.IsLiked != msg.Liked {
			if msg.Liked {
				m.snippet.LikesCount++
			} else if m.snippet.LikesCount > 0 {
				m.snippet.LikesCount--
			}
			m.snippet.IsLiked = msg.Liked
		}
		m.cache.PutSnippet(m.snippet)
		m.viewport.SetContent(m.renderSnippet())
		return m, nil

	case tea.KeyMsg:
		if msg.String() != "d" {
			m.confirmDelete = false
		}
		switch msg.String() {
		case "l":
			if m.snippet == nil {
				return m, nil
			}
			if !m.store.Authenticated() {
				return m, func() tea.Msg { return messages.OpenLoginMsg{} }
			}
			id := m.snippet.ID
			client := m.client
			return m, func() tea.Msg {
				liked, err := client.LikeSnippet(context.Background(), id)
				return messages.LikeResultMsg{SnippetID: id, Liked: liked, Err: err}
			}
		case "p":
			if m.snippet != nil && m.snippet.Author != nil {
				id := m.snippet.Author.ID
				return m, func() tea.Msg {
					return messages.OpenUserMsg{UserID: id}
				}
			}
		case "e":
			if m.isOwn() {
				snippet := m.snippet
				return m, func() tea.Msg {
					return messages.OpenEditMsg{Snippet: snippet}
				}
			}
		case "d":
			if !m.isOwn() {
				return m, nil
			}
			// First press arms the confirmation, second performs it.
			if !m.confirmDelete {
				m.confirmDelete = true
				return m, nil
			}
			m.confirmDelete = false
			id := m.snippet.ID
			client := m.client
			return m, func() tea.Msg {
				err := client.DeleteSnippet(context.Background(), id)
				return messages.SnippetDeletedMsg{SnippetID: id, Err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the snippet.
func (m Model) View() string {
	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			"Error: "+m.err.Error())
	}
	if m.snippet == nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, "Loading...")
	}
	var hint string
	switch {
	case m.confirmDelete:
		hint = errorStyle.Render("press d again to delete, any other key cancels")
	case m.isOwn():
		hint = hintStyle.Render("l like  e edit  d delete  p author  esc back")
	default:
		hint = hintStyle.Render("l like  p author  esc back")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), hint)
}

// isOwn reports whether the loaded snippet belongs to the logged-in user.
func (m Model) isOwn() bool {
	user := m.store.User()
	return m.snippet != nil && user != nil &&
		m.snippet.Author != nil && m.snippet.Author.ID == user.ID
}

func (m Model) renderSnippet() string {
	s := m.snippet
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(s.Title))
	sb.WriteString("\n")

	heart := "♡"
	if s.IsLiked {
		heart = "♥"
	}
	meta := []string{likeStyle.Render(fmt.Sprintf("%s %d", heart, s.LikesCount))}
	if name := s.AuthorName(); name != "" {
		meta = append(meta, "by "+name)
	}
	if ago := render.TimeAgo(s.CreatedAt.Time); ago != "" {
		meta = append(meta, ago)
	}
	if s.Language != "" {
		meta = append(meta, s.Language)
	}
	sb.WriteString(metaStyle.Render(strings.Join(meta, " | ")))
	sb.WriteString("\n")

	if tags := s.TagNames(); len(tags) > 0 {
		sb.WriteString(tagStyle.Render("#" + strings.Join(tags, " #")))
		sb.WriteString("\n")
	}

	if s.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(render.WrapText(s.Description, m.width-2))
		sb.WriteString("\n")
	}

	rule := ruleStyle.Render(strings.Repeat("─", max(m.width-2, 1)))
	sb.WriteString("\n")
	sb.WriteString(rule)
	sb.WriteString("\n")
	sb.WriteString(codeStyle.Render(s.Code))
	sb.WriteString("\n")
	sb.WriteString(rule)

	return sb.String()
}
