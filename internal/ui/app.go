package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snipted/snipterm/internal/api"
	"github.com/snipted/snipterm/internal/auth"
	"github.com/snipted/snipterm/internal/cache"
	"github.com/snipted/snipterm/internal/config"
	"github.com/snipted/snipterm/internal/ui/create"
	"github.com/snipted/snipterm/internal/ui/edit"
	"github.com/snipted/snipterm/internal/ui/login"
	"github.com/snipted/snipterm/internal/ui/messages"
	"github.com/snipted/snipterm/internal/ui/register"
	"github.com/snipted/snipterm/internal/ui/snippetlist"
	"github.com/snipted/snipterm/internal/ui/snippetview"
	"github.com/snipted/snipterm/internal/ui/statusbar"
	"github.com/snipted/snipterm/internal/ui/userprofile"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewSnippetList ViewType = iota
	ViewSnippetDetail
	ViewLogin
	ViewRegister
	ViewCreate
	ViewEdit
	ViewUserProfile
)

// App is the root Bubble Tea model.
type App struct {
	// View state
	activeView    ViewType
	previousViews []ViewType

	// Child models
	snippetList  snippetlist.Model
	snippetView  snippetview.Model
	loginForm    login.Model
	registerForm register.Model
	createForm   create.Model
	editForm     edit.Model
	userProfile  userprofile.Model
	statusBar    statusbar.Model

	// Shared state
	cfg     config.Config
	client  *api.Client
	cache   *cache.DB
	store   *auth.Store
	session *auth.Session
	flows   *auth.Flows

	// Dimensions
	width  int
	height int
}

// NewApp creates the root application model.
func NewApp(cfg config.Config, client *api.Client, db *cache.DB) *App {
	store := auth.NewStore()
	session := auth.NewSession(client, store, cfg.SessionPath)
	flows := auth.NewFlows(client, store, session)

	bar := statusbar.New()
	// Show the last known user while the probe is in flight. Display cache
	// only; the probe's answer replaces it.
	if last := db.LastUser(); last != nil {
		bar.SetUser(last.Username)
	}

	return &App{
		activeView:  ViewSnippetList,
		snippetList: snippetlist.New(cfg, client, db, store),
		statusBar:   bar,
		cfg:         cfg,
		client:      client,
		cache:       db,
		store:       store,
		session:     session,
		flows:       flows,
	}
}

// Init starts the application: first page load plus the one-time session
// bootstrap.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.snippetList.Init(), a.bootstrap())
}

func (a *App) bootstrap() tea.Cmd {
	session := a.session
	return func() tea.Msg {
		user := session.Bootstrap(context.Background())
		return messages.AuthResolvedMsg{User: user}
	}
}

// inTextEntry reports whether the active view owns the keyboard.
func (a *App) inTextEntry() bool {
	switch a.activeView {
	case ViewLogin, ViewRegister, ViewCreate, ViewEdit:
		return true
	}
	return false
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // Reserve 1 line for status bar.
		a.snippetList.SetSize(msg.Width, contentHeight)
		a.statusBar.SetSize(msg.Width)
		switch a.activeView {
		case ViewSnippetDetail:
			a.snippetView.SetSize(msg.Width, contentHeight)
		case ViewLogin:
			a.loginForm.SetSize(msg.Width, contentHeight)
		case ViewRegister:
			a.registerForm.SetSize(msg.Width, contentHeight)
		case ViewCreate:
			a.createForm.SetSize(msg.Width, contentHeight)
		case ViewEdit:
			a.editForm.SetSize(msg.Width, contentHeight)
		case ViewUserProfile:
			a.userProfile.SetSize(msg.Width, contentHeight)
		}
		return a, nil

	case tea.KeyMsg:
		if a.inTextEntry() {
			switch {
			case key.Matches(msg, Keys.Back):
				return a, a.goBack()
			case msg.String() == "ctrl+c":
				return a, tea.Quit
			}
			break
		}
		// The list's search box owns most keys while focused.
		if a.activeView == ViewSnippetList && a.snippetList.Searching() {
			break
		}
		switch {
		case key.Matches(msg, Keys.Quit):
			if msg.String() == "ctrl+c" || a.activeView == ViewSnippetList {
				return a, tea.Quit
			}
			return a, a.goBack()
		case key.Matches(msg, Keys.Back):
			if len(a.previousViews) > 0 {
				return a, a.goBack()
			}
			if a.activeView != ViewSnippetList {
				a.activeView = ViewSnippetList
				return a, nil
			}
		case key.Matches(msg, Keys.Login):
			if !a.store.Authenticated() {
				a.openLogin()
			}
			return a, nil
		case key.Matches(msg, Keys.Logout):
			if a.store.Authenticated() {
				return a, a.logout()
			}
			return a, nil
		case key.Matches(msg, Keys.New):
			if a.activeView == ViewSnippetList {
				if !a.store.Authenticated() {
					a.openLogin()
					return a, nil
				}
				a.pushView(ViewCreate)
				a.createForm = create.New(a.client)
				a.createForm.SetSize(a.width, a.height-1)
				return a, nil
			}
		}

	// View transitions.
	case messages.OpenSnippetMsg:
		a.pushView(ViewSnippetDetail)
		a.snippetView = snippetview.New(a.cfg, a.client, a.cache, a.store)
		a.snippetView.SetSize(a.width, a.height-1)
		return a, a.snippetView.Init(msg.ID)

	case messages.OpenLoginMsg:
		a.openLogin()
		return a, nil

	case messages.OpenRegisterMsg:
		a.pushView(ViewRegister)
		a.registerForm = register.New(a.flows)
		a.registerForm.SetSize(a.width, a.height-1)
		return a, nil

	case messages.OpenEditMsg:
		a.pushView(ViewEdit)
		a.editForm = edit.New(a.client, msg.Snippet)
		a.editForm.SetSize(a.width, a.height-1)
		return a, nil

	case messages.OpenUserMsg:
		a.pushView(ViewUserProfile)
		a.userProfile = userprofile.New(msg.UserID, a.cfg, a.client, a.cache)
		a.userProfile.SetSize(a.width, a.height-1)
		return a, a.userProfile.Init()

	case messages.AuthResolvedMsg:
		if msg.User != nil {
			a.statusBar.SetUser(msg.User.Username)
		} else {
			a.statusBar.SetUser("")
		}
		a.cache.SaveLastUser(msg.User)
		return a, nil

	case messages.LoginResultMsg:
		if msg.Err == nil && msg.User != nil {
			a.statusBar.SetUser(msg.User.Username)
			a.statusBar.SetStatus("", false)
			a.cache.SaveLastUser(msg.User)
			return a, a.goBack()
		}
		// Let the form display the error.

	case messages.RegisterResultMsg:
		if msg.Err == nil && msg.User != nil {
			a.statusBar.SetUser(msg.User.Username)
			a.cache.SaveLastUser(msg.User)
			a.resetToList()
			return a, nil
		}

	case messages.LoggedOutMsg:
		a.statusBar.SetUser("")
		a.statusBar.SetStatus("Logged out", false)
		a.cache.SaveLastUser(nil)
		return a, nil

	case messages.SnippetCreatedMsg:
		if msg.Err == nil && msg.Snippet != nil {
			a.cache.PutSnippet(msg.Snippet)
			a.statusBar.SetStatus("Published: "+msg.Snippet.Title, false)
			a.resetToList()
			return a, a.snippetList.Reload()
		}
		// Keep routing: the form still needs the message to leave its
		// submitting state.
		a.expireIfUnauthorized(msg.Err)

	case messages.SnippetUpdatedMsg:
		if msg.Err == nil && msg.Snippet != nil {
			a.cache.PutSnippet(msg.Snippet)
			a.statusBar.SetStatus("Updated: "+msg.Snippet.Title, false)
			a.goBack()
			snippet := msg.Snippet
			return a, func() tea.Msg {
				return messages.SnippetLoadedMsg{Snippet: snippet}
			}
		}
		a.expireIfUnauthorized(msg.Err)

	case messages.SnippetDeletedMsg:
		// A 404 means it is already gone server-side; same outcome.
		if msg.Err == nil || api.IsNotFound(msg.Err) {
			a.cache.DeleteSnippet(msg.SnippetID)
			a.statusBar.SetStatus("Snippet deleted", false)
			a.resetToList()
			return a, a.snippetList.Reload()
		}
		if !a.expireIfUnauthorized(msg.Err) {
			a.statusBar.SetStatus("Delete failed", true)
		}
		return a, nil

	case messages.LikeResultMsg:
		if msg.Err != nil {
			if !a.expireIfUnauthorized(msg.Err) {
				a.statusBar.SetStatus("Like failed", true)
			}
		} else {
			a.statusBar.SetStatus("", false)
		}

	case messages.SnippetsLoadedMsg:
		a.statusBar.SetStale(msg.Stale)

	case messages.SessionExpiredMsg:
		a.expireSession()
		return a, nil

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
	}

	// Route to the active view.
	var cmd tea.Cmd
	switch a.activeView {
	case ViewSnippetList:
		a.snippetList, cmd = a.snippetList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewSnippetDetail:
		a.snippetView, cmd = a.snippetView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewLogin:
		a.loginForm, cmd = a.loginForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewRegister:
		a.registerForm, cmd = a.registerForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewCreate:
		a.createForm, cmd = a.createForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewEdit:
		a.editForm, cmd = a.editForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewUserProfile:
		a.userProfile, cmd = a.userProfile.Update(msg)
		cmds = append(cmds, cmd)
	}

	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch a.activeView {
	case ViewSnippetList:
		content = a.snippetList.View()
	case ViewSnippetDetail:
		content = a.snippetView.View()
	case ViewLogin:
		content = a.loginForm.View()
	case ViewRegister:
		content = a.registerForm.View()
	case ViewCreate:
		content = a.createForm.View()
	case ViewEdit:
		content = a.editForm.View()
	case ViewUserProfile:
		content = a.userProfile.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar.View())
}

func (a *App) openLogin() {
	a.pushView(ViewLogin)
	a.loginForm = login.New(a.flows)
	a.loginForm.SetSize(a.width, a.height-1)
}

func (a *App) logout() tea.Cmd {
	flows := a.flows
	return func() tea.Msg {
		flows.Logout(context.Background())
		return messages.LoggedOutMsg{}
	}
}

// expireIfUnauthorized implements the 401-outside-login policy: drop the
// local session and tell the user, without yanking them to another view.
func (a *App) expireIfUnauthorized(err error) bool {
	if !api.IsUnauthorized(err) || !a.store.Authenticated() {
		return false
	}
	a.expireSession()
	return true
}

func (a *App) expireSession() {
	a.store.Clear()
	a.session.Discard()
	a.cache.SaveLastUser(nil)
	a.statusBar.SetUser("")
	a.statusBar.SetStatus("Session expired, press L to log in", true)
}

func (a *App) pushView(v ViewType) {
	a.previousViews = append(a.previousViews, a.activeView)
	a.activeView = v
}

func (a *App) goBack() tea.Cmd {
	if len(a.previousViews) > 0 {
		a.activeView = a.previousViews[len(a.previousViews)-1]
		a.previousViews = a.previousViews[:len(a.previousViews)-1]
	}
	return nil
}

func (a *App) resetToList() {
	a.activeView = ViewSnippetList
	a.previousViews = nil
}
