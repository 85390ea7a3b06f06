package register

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
)

const fieldCount = 4

// Model is the account creation form. A successful registration runs the
// login flow with the same credentials, so the user lands signed in.
type Model struct {
	usernameInput textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	confirmInput  textinput.Model
	focusIndex    int
	err           string
	submitting    bool
	flows         *auth.Flows
	width         int
	height        int
}

// New creates a new registration form.
func New(flows *auth.Flows) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()
	username.Width = 30

	email := textinput.New()
	email.Placeholder = "email"
	email.Width = 30

	password := textinput.New()
	password.Placeholder = "password (min 6 characters)"
	password.EchoMode = textinput.EchoPassword
	password.Width = 30

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.Width = 30

	return Model{
		usernameInput: username,
		emailInput:    email,
		passwordInput: password,
		confirmInput:  confirm,
		flows:         flows,
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *Model) inputs() []*textinput.Model {
	return []*textinput.Model{&m.usernameInput, &m.emailInput, &m.passwordInput, &m.confirmInput}
}

func (m *Model) focus(index int) tea.Cmd {
	m.focusIndex = index
	var cmd tea.Cmd
	for i, input := range m.inputs() {
		if i == index {
			cmd = input.Focus()
		} else {
			input.Blur()
		}
	}
	return cmd
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return m, m.focus((m.focusIndex + 1) % fieldCount)
		case "shift+tab", "up":
			return m, m.focus((m.focusIndex + fieldCount - 1) % fieldCount)
		case "enter":
			if m.submitting {
				return m, nil
			}
			username := strings.TrimSpace(m.usernameInput.Value())
			email := strings.TrimSpace(m.emailInput.Value())
			password := m.passwordInput.Value()
			confirm := m.confirmInput.Value()
			// Validation failures stay local: no request goes out.
			if err := auth.ValidateRegistration(username, email, password, confirm); err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.submitting = true
			m.err = ""
			flows := m.flows
			return m, func() tea.Msg {
				user, err := flows.Register(context.Background(), username, email, password, confirm)
				return messages.RegisterResultMsg{User: user, Err: err}
			}
		}

	case messages.RegisterResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	inputs := m.inputs()
	*inputs[m.focusIndex], cmd = inputs[m.focusIndex].Update(msg)
	return m, cmd
}

// View renders the registration form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Create a Snipted account"))
	sb.WriteString("\n\n")

	labels := []string{"Username:", "Email:", "Password:", "Confirm password:"}
	for i, input := range []textinput.Model{m.usernameInput, m.emailInput, m.passwordInput, m.confirmInput} {
		sb.WriteString(labelStyle.Render(labels[i]))
		sb.WriteString("\n")
		sb.WriteString(input.View())
		sb.WriteString("\n\n")
	}

	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n\n")
	}

	if m.submitting {
		sb.WriteString("Creating account...")
	} else {
		sb.WriteString(focusedStyle.Render("Enter") + " to sign up, " + focusedStyle.Render("Esc") + " to cancel")
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
