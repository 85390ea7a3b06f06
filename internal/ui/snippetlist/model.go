package snippetlist

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snipted/snipterm/internal/api"
	"github.com/snipted/snipterm/internal/auth"
	"github.com/snipted/snipterm/internal/cache"
	"github.com/snipted/snipterm/internal/config"
	"github.com/snipted/snipterm/internal/ui/messages"
)

// searchDebounce is how long the search box stays quiet before a keystroke
// turns into a request.
const searchDebounce = 300 * time.Millisecond

type searchDebounceMsg struct{ seq int }

// Model is the snippet list view with its search box.
type Model struct {
	list      list.Model
	search    textinput.Model
	searching bool
	searchSeq int
	opts      api.ListOptions
	client    *api.Client
	cache     *cache.DB
	store     *auth.Store
	cfg       config.Config
	loading   bool
	width     int
	height    int
}

// New creates the snippet list model.
func New(cfg config.Config, client *api.Client, db *cache.DB, store *auth.Store) Model {
	l := list.New(nil, Delegate{}, 0, 0)
	l.Title = "Snippets"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	search := textinput.New()
	search.Placeholder = "search, #tag to filter by tag"
	search.Prompt = "/ "
	search.Width = 40

	return Model{
		list:   l,
		search: search,
		opts:   api.ListOptions{Limit: cfg.PageSize},
		client: client,
		cache:  db,
		store:  store,
		cfg:    cfg,
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.loadSnippets()
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h-1) // one line reserved for the search box
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SnippetsLoadedMsg:
		if msg.Key != m.opts.Key() {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Error: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.Snippets))
		for _, s := range msg.Snippets {
			if s != nil {
				items = append(items, Item{Snippet: s})
			}
		}
		m.list.SetItems(items)
		m.list.Title = m.title()
		return m, nil

	case messages.LikeResultMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.applyLike(msg.SnippetID, msg.Liked)
		return m, nil

	case searchDebounceMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		return m.applySearch()

	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "esc":
				m.searching = false
				m.search.Blur()
				if m.search.Value() == "" && (m.opts.Query != "" || m.opts.Tag != "") {
					return m.applySearch()
				}
				return m, nil
			case "enter":
				m.searching = false
				m.search.Blur()
				m.searchSeq++ // cancel any pending debounce
				return m.applySearch()
			default:
				var cmd tea.Cmd
				m.search, cmd = m.search.Update(msg)
				m.searchSeq++
				seq := m.searchSeq
				debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
					return searchDebounceMsg{seq: seq}
				})
				return m, tea.Batch(cmd, debounce)
			}
		}

		switch msg.String() {
		case "/":
			m.searching = true
			return m, m.search.Focus()
		case "enter":
			if item, ok := m.list.SelectedItem().(Item); ok {
				id := item.Snippet.ID
				return m, func() tea.Msg {
					return messages.OpenSnippetMsg{ID: id}
				}
			}
		case "l":
			if item, ok := m.list.SelectedItem().(Item); ok {
				if !m.store.Authenticated() {
					return m, func() tea.Msg { return messages.OpenLoginMsg{} }
				}
				return m, likeCmd(m.client, item.Snippet.ID)
			}
		case "p":
			if item, ok := m.list.SelectedItem().(Item); ok && item.Snippet.Author != nil {
				id := item.Snippet.Author.ID
				return m, func() tea.Msg {
					return messages.OpenUserMsg{UserID: id}
				}
			}
		case "r", "ctrl+r":
			m.loading = true
			m.list.Title = m.title() + " (refreshing...)"
			return m, m.loadSnippetsForce()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the search box above the list.
func (m Model) View() string {
	var top string
	if m.searching || m.search.Value() != "" {
		top = m.search.View()
	} else {
		top = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).
			Render("/ search  enter open  l like  c new  r refresh")
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, m.list.View())
}

// Searching reports whether the search box owns the keyboard.
func (m Model) Searching() bool {
	return m.searching
}

// Reload refreshes the current page, bypassing the list cache. Used after
// a snippet is created.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	return m.loadSnippetsForce()
}

func (m *Model) applyLike(id int64, liked bool) {
	for i, li := range m.list.Items() {
		item, ok := li.(Item)
		if !ok || item.Snippet.ID != id {
			continue
		}
		if item.Snippet.IsLiked != liked {
			if liked {
				item.Snippet.LikesCount++
			} else if item.Snippet.LikesCount > 0 {
				item.Snippet.LikesCount--
			}
			item.Snippet.IsLiked = liked
		}
		m.cache.PutSnippet(item.Snippet)
		m.list.SetItem(i, item)
		return
	}
}

func (m Model) applySearch() (Model, tea.Cmd) {
	opts := parseQuery(m.search.Value())
	opts.Limit = m.cfg.PageSize
	if opts == m.opts {
		return m, nil
	}
	m.opts = opts
	m.loading = true
	m.list.Title = m.title() + " (loading...)"
	return m, m.loadSnippets()
}

// parseQuery splits the search box input into a text query and an optional
// "#tag" filter.
func parseQuery(input string) api.ListOptions {
	var opts api.ListOptions
	var words []string
	for _, w := range strings.Fields(input) {
		if tag, ok := strings.CutPrefix(w, "#"); ok && tag != "" {
			opts.Tag = strings.ToLower(tag)
			continue
		}
		words = append(words, w)
	}
	opts.Query = strings.Join(words, " ")
	return opts
}

func (m Model) title() string {
	switch {
	case m.opts.Query != "" && m.opts.Tag != "":
		return "Snippets: \"" + m.opts.Query + "\" #" + m.opts.Tag
	case m.opts.Query != "":
		return "Snippets: \"" + m.opts.Query + "\""
	case m.opts.Tag != "":
		return "Snippets #" + m.opts.Tag
	default:
		return "Snippets"
	}
}

func (m Model) loadSnippets() tea.Cmd {
	opts := m.opts
	client := m.client
	db := m.cache
	cfg := m.cfg

	return func() tea.Msg {
		key := opts.Key()
		ids, fresh, _ := db.GetList(key, cfg.ListTTL)
		if fresh && len(ids) > 0 {
			return loadFromCache(key, ids, db, cfg, false)
		}
		return fetchAndCache(opts, client, db, cfg, ids)
	}
}

func (m Model) loadSnippetsForce() tea.Cmd {
	opts := m.opts
	client := m.client
	db := m.cache
	cfg := m.cfg

	return func() tea.Msg {
		db.InvalidateList(opts.Key())
		return fetchAndCache(opts, client, db, cfg, nil)
	}
}

func loadFromCache(key string, ids []int64, db *cache.DB, cfg config.Config, stale bool) messages.SnippetsLoadedMsg {
	snippets := make([]*api.Snippet, 0, len(ids))
	for _, id := range ids {
		if s, _, _ := db.GetSnippet(id, cfg.SnippetTTL); s != nil {
			snippets = append(snippets, s)
		}
	}
	return messages.SnippetsLoadedMsg{Key: key, Snippets: snippets, Stale: stale}
}

func fetchAndCache(opts api.ListOptions, client *api.Client, db *cache.DB, cfg config.Config, fallbackIDs []int64) messages.SnippetsLoadedMsg {
	key := opts.Key()
	var snippets []*api.Snippet
	var err error
	// Plain text queries go to the ranked search endpoint; tag filtering
	// only exists on the list endpoint.
	if opts.Query != "" && opts.Tag == "" {
		snippets, err = client.SearchSnippets(context.Background(), opts.Query)
	} else {
		snippets, err = client.ListSnippets(context.Background(), opts)
	}
	if err != nil {
		// Serve the stale page when the server is unreachable.
		if len(fallbackIDs) > 0 {
			return loadFromCache(key, fallbackIDs, db, cfg, true)
		}
		return messages.SnippetsLoadedMsg{Key: key, Err: err}
	}

	ids := make([]int64, 0, len(snippets))
	for _, s := range snippets {
		ids = append(ids, s.ID)
	}
	db.PutList(key, ids)
	db.PutSnippets(snippets)
	return messages.SnippetsLoadedMsg{Key: key, Snippets: snippets}
}

func likeCmd(client *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		liked, err := client.LikeSnippet(context.Background(), id)
		return messages.LikeResultMsg{SnippetID: id, Liked: liked, Err: err}
	}
}
