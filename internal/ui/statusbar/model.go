package statusbar

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF"))

	brandStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3B82F6")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	staleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B6B00")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// Model is the status bar at the bottom of the screen.
type Model struct {
	width      int
	username   string
	checking   bool
	statusText string
	isError    bool
	stale      bool
}

// New creates a new status bar. Until the bootstrap probe answers, the
// identity slot shows a checking indicator.
func New() Model {
	return Model{checking: true}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetUser sets the logged-in username; empty means logged out.
func (m *Model) SetUser(username string) {
	m.username = username
	m.checking = false
}

// SetStatus sets a transient status message.
func (m *Model) SetStatus(text string, isError bool) {
	m.statusText = text
	m.isError = isError
}

// SetStale flags that the current page came from cache because the server
// was unreachable.
func (m *Model) SetStale(stale bool) {
	m.stale = stale
}

// Update is a no-op for the status bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	left := brandStyle.Render("snipterm")

	var right string
	if m.stale {
		right += staleStyle.Render("CACHED")
	}
	if m.statusText != "" {
		if m.isError {
			right += errorTextStyle.Render(m.statusText)
		} else {
			right += statusTextStyle.Render(m.statusText)
		}
	}
	switch {
	case m.checking:
		right += statusTextStyle.Render("…")
	case m.username != "":
		right += userStyle.Render(m.username)
	default:
		right += statusTextStyle.Render("L:login")
	}

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	gap := m.width - leftWidth - rightWidth
	if gap < 0 {
		gap = 0
	}
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
}
