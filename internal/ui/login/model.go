package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snipted/snipterm/internal/auth"
	"github.com/snipted/snipterm/internal/ui/messages"
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true).
			Padding(1, 0)
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
)

// Model is the login form view.
type Model struct {
	emailInput    textinput.Model
	passwordInput textinput.Model
	focusIndex    int
	err           string
	submitting    bool
	flows         *auth.Flows
	width         int
	height        int
}

// New creates a new login form.
func New(flows *auth.Flows) Model {
	emailInput := textinput.New()
	emailInput.Placeholder = "email"
	emailInput.Focus()
	emailInput.Width = 30

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.Width = 30

	return Model{
		emailInput:    emailInput,
		passwordInput: passwordInput,
		flows:         flows,
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
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			if m.focusIndex == 0 {
				m.focusIndex = 1
				m.emailInput.Blur()
				m.passwordInput.Focus()
			} else {
				m.focusIndex = 0
				m.passwordInput.Blur()
				m.emailInput.Focus()
			}
			return m, nil
		case "ctrl+r":
			if !m.submitting {
				return m, func() tea.Msg { return messages.OpenRegisterMsg{} }
			}
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}
			email := strings.TrimSpace(m.emailInput.Value())
			password := m.passwordInput.Value()
			// Validation failures stay local: no request goes out.
			if err := auth.ValidateLogin(email, password); err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.submitting = true
			m.err = ""
			flows := m.flows
			return m, func() tea.Msg {
				user, err := flows.Login(context.Background(), email, password)
				return messages.LoginResultMsg{User: user, Err: err}
			}
		}

	case messages.LoginResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

// View renders the login form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Log in to Snipted"))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Email:"))
	sb.WriteString("\n")
	sb.WriteString(m.emailInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Password:"))
	sb.WriteString("\n")
	sb.WriteString(m.passwordInput.View())
	sb.WriteString("\n\n")

	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n\n")
	}

	if m.submitting {
		sb.WriteString("Logging in...")
	} else {
		sb.WriteString(focusedStyle.Render("Enter") + " to submit, " + focusedStyle.Render("Esc") + " to cancel")
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("No account? Press ctrl+r to register"))
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
