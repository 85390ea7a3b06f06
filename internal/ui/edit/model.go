package edit

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snipted/snipterm/internal/api"
	"github.com/snipted/snipterm/internal/ui/messages"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Width(12)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

type field int

const (
	fieldTitle field = iota
	fieldLanguage
	fieldTags
	fieldDescription
	fieldCode
	fieldCount
)

// Model edits a snippet the current user owns. Every field is sent on save;
// the server rejects edits from anyone but the author.
type Model struct {
	snippetID  int64
	titleInput textinput.Model
	langInput  textinput.Model
	tagsInput  textinput.Model
	descInput  textinput.Model
	codeInput  textarea.Model
	focused    field
	client     *api.Client
	err        string
	submitting bool
	width      int
	height     int
}

// New creates an edit form prefilled from the snippet.
func New(client *api.Client, s *api.Snippet) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 60
	ti.SetValue(s.Title)
	ti.Focus()

	lang := textinput.New()
	lang.CharLimit = 50
	lang.Width = 60
	lang.SetValue(s.Language)

	tags := textinput.New()
	tags.Placeholder = "tags, comma separated (max 10)"
	tags.Width = 60
	tags.SetValue(strings.Join(s.TagNames(), ", "))

	desc := textinput.New()
	desc.Placeholder = "short description (optional)"
	desc.Width = 60
	desc.SetValue(s.Description)

	code := textarea.New()
	code.SetHeight(10)
	code.SetWidth(60)
	code.CharLimit = 50000
	code.SetValue(s.Code)

	return Model{
		snippetID:  s.ID,
		titleInput: ti,
		langInput:  lang,
		tagsInput:  tags,
		descInput:  desc,
		codeInput:  code,
		focused:    fieldTitle,
		client:     client,
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	fw := w - 16
	if fw > 80 {
		fw = 80
	}
	if fw < 20 {
		fw = 20
	}
	m.titleInput.Width = fw
	m.langInput.Width = fw
	m.tagsInput.Width = fw
	m.descInput.Width = fw
	m.codeInput.SetWidth(fw)
	ch := h - 16
	if ch < 4 {
		ch = 4
	}
	if ch > 20 {
		ch = 20
	}
	m.codeInput.SetHeight(ch)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			// The code area needs tab for indentation.
			if m.focused != fieldCode {
				m.focused = (m.focused + 1) % fieldCount
				return m, m.updateFocus()
			}
		case "shift+tab":
			m.focused = (m.focused + fieldCount - 1) % fieldCount
			return m, m.updateFocus()
		case "ctrl+s":
			if m.submitting {
				return m, nil
			}
			title := strings.TrimSpace(m.titleInput.Value())
			if title == "" {
				m.err = "Title is required"
				return m, nil
			}
			code := strings.TrimRight(m.codeInput.Value(), "\n")
			if strings.TrimSpace(code) == "" {
				m.err = "Code is required"
				return m, nil
			}
			language := strings.TrimSpace(m.langInput.Value())
			if language == "" {
				language = "text"
			}
			description := strings.TrimSpace(m.descInput.Value())
			tags := parseTags(m.tagsInput.Value())
			in := api.SnippetUpdate{
				Title:       &title,
				Code:        &code,
				Language:    &language,
				Description: &description,
				Tags:        &tags,
			}
			m.submitting = true
			m.err = ""
			id := m.snippetID
			client := m.client
			return m, func() tea.Msg {
				snippet, err := client.UpdateSnippet(context.Background(), id, in)
				return messages.SnippetUpdatedMsg{Snippet: snippet, Err: err}
			}
		}

	case messages.SnippetUpdatedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.err = saveError(msg.Err)
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focused {
	case fieldTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case fieldLanguage:
		m.langInput, cmd = m.langInput.Update(msg)
	case fieldTags:
		m.tagsInput, cmd = m.tagsInput.Update(msg)
	case fieldDescription:
		m.descInput, cmd = m.descInput.Update(msg)
	case fieldCode:
		m.codeInput, cmd = m.codeInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateFocus() tea.Cmd {
	m.titleInput.Blur()
	m.langInput.Blur()
	m.tagsInput.Blur()
	m.descInput.Blur()
	m.codeInput.Blur()
	switch m.focused {
	case fieldTitle:
		return m.titleInput.Focus()
	case fieldLanguage:
		return m.langInput.Focus()
	case fieldTags:
		return m.tagsInput.Focus()
	case fieldDescription:
		return m.descInput.Focus()
	case fieldCode:
		return m.codeInput.Focus()
	}
	return nil
}

// parseTags splits and normalizes the comma-separated tag field, capped at
// the server's limit of 10.
func parseTags(input string) []string {
	tags := []string{}
	for _, t := range strings.Split(input, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		tags = append(tags, t)
		if len(tags) == 10 {
			break
		}
	}
	return tags
}

func saveError(err error) string {
	switch {
	case api.IsNotFound(err):
		return "This snippet no longer exists"
	case api.IsRateLimited(err):
		return "Saving too fast, wait a minute and try again"
	case api.IsInvalidInput(err):
		return "The server rejected the edit, check the fields"
	case api.IsUnauthorized(err):
		return "Session expired, log in again"
	case api.IsNetwork(err):
		return "Cannot reach the server, check your connection"
	default:
		return "Saving failed, try again"
	}
}

// View renders the form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Edit Snippet"))
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("title") + " " + m.titleInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("language") + " " + m.langInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("tags") + " " + m.tagsInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("description") + " " + m.descInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("code"))
	sb.WriteString("\n")
	sb.WriteString(m.codeInput.View())
	sb.WriteString("\n\n")

	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n")
	}

	if m.submitting {
		sb.WriteString("Saving...")
	} else {
		sb.WriteString(hintStyle.Render("Tab to switch fields | Ctrl+S to save | Esc to cancel"))
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
}
