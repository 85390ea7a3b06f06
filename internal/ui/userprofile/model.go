package userprofile

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/snipted/snipterm/internal/api"
	"github.com/snipted/snipterm/internal/cache"
	"github.com/snipted/snipterm/internal/config"
	"github.com/snipted/snipterm/internal/render"
	"github.com/snipted/snipterm/internal/ui/messages"
)

var (
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	starStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Model shows an author's profile and their recent snippets.
type Model struct {
	userID   int64
	user     *api.User
	snippets []*api.Snippet
	selected int
	err      error
	loading  bool
	client   *api.Client
	cache    *cache.DB
	cfg      config.Config
	width    int
	height   int
}

// New creates a profile view for the given user.
func New(userID int64, cfg config.Config, client *api.Client, db *cache.DB) Model {
	return Model{
		userID:  userID,
		loading: true,
		client:  client,
		cache:   db,
		cfg:     cfg,
	}
}

// Init fetches the profile and the snippet page it is derived from in
// parallel; the API has no per-author list endpoint, so the recent page is
// filtered client-side.
func (m Model) Init() tea.Cmd {
	userID := m.userID
	client := m.client
	db := m.cache
	cfg := m.cfg

	return func() tea.Msg {
		var user *api.User
		var all []*api.Snippet

		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			if cached, fresh, _ := db.GetUser(userID, cfg.UserTTL); fresh && cached != nil {
				user = cached
				return nil
			}
			fetched, err := client.GetUser(ctx, userID)
			if err != nil {
				return err
			}
			db.PutUser(fetched)
			user = fetched
			return nil
		})
		g.Go(func() error {
			fetched, err := client.ListSnippets(ctx, api.ListOptions{Limit: 100})
			if err != nil {
				return err
			}
			all = fetched
			return nil
		})
		if err := g.Wait(); err != nil {
			return messages.ProfileLoadedMsg{Err: err}
		}

		var own []*api.Snippet
		for _, s := range all {
			if s.Author != nil && s.Author.ID == userID {
				own = append(own, s)
			}
		}
		db.PutSnippets(own)
		return messages.ProfileLoadedMsg{User: user, Snippets: own}
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ProfileLoadedMsg:
		m.loading = false
		m.err = msg.Err
		m.user = msg.User
		m.snippets = msg.Snippets
		m.selected = 0
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selected < len(m.snippets)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "enter":
			if m.selected < len(m.snippets) {
				id := m.snippets[m.selected].ID
				return m, func() tea.Msg {
					return messages.OpenSnippetMsg{ID: id}
				}
			}
		}
	}
	return m, nil
}

// View renders the profile.
func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, "Loading...")
	}
	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			"Error: "+m.err.Error())
	}

	var sb strings.Builder
	sb.WriteString(nameStyle.Render(m.user.Username))
	sb.WriteString("\n")
	meta := []string{starStyle.Render(fmt.Sprintf("★ %d", m.user.ReputationStars))}
	if ago := render.TimeAgo(m.user.CreatedAt.Time); ago != "" {
		meta = append(meta, "joined "+ago)
	}
	sb.WriteString(metaStyle.Render(strings.Join(meta, " | ")))
	sb.WriteString("\n\n")

	if len(m.snippets) == 0 {
		sb.WriteString(metaStyle.Render("No recent snippets."))
	} else {
		sb.WriteString(metaStyle.Render("Recent snippets:"))
		sb.WriteString("\n")
		for i, s := range m.snippets {
			cursor := "  "
			line := titleStyle.Render(s.Title)
			if i == m.selected {
				cursor = nameStyle.Render("▍ ")
				line = nameStyle.Render(s.Title)
			}
			sb.WriteString(fmt.Sprintf("%s%s %s\n", cursor, line,
				metaStyle.Render(fmt.Sprintf("♡ %d | %s", s.LikesCount, render.TimeAgo(s.CreatedAt.Time)))))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("enter open  esc back"))
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}
