package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/adapters/tui/styles"
	"prompttree/internal/application"
	"prompttree/internal/application/commands"
	"prompttree/internal/ports"
)

// TemplatesKeyMap defines key bindings for the template picker
type TemplatesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var TemplatesKeys = TemplatesKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "use template"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// templatesChrome is the number of rows used around the template list
const templatesChrome = 12

// TemplatesModel is a filterable template picker
type TemplatesModel struct {
	ViewState
	session    *application.Session
	catalog    ports.TemplateCatalog
	filter     textinput.Model
	pager      *Paginator
	names      []string
	confirming bool
}

// NewTemplatesModel creates a template picker
func NewTemplatesModel(session *application.Session, catalog ports.TemplateCatalog) *TemplatesModel {
	filter := textinput.New()
	filter.Placeholder = "Filter templates..."
	filter.CharLimit = 60

	m := &TemplatesModel{
		session: session,
		catalog: catalog,
		filter:  filter,
		pager:   NewPaginator(10),
	}
	m.applyFilter()
	return m
}

// Open clears the filter and focuses it
func (m *TemplatesModel) Open() tea.Cmd {
	m.ClearMessage()
	m.confirming = false
	m.filter.SetValue("")
	m.applyFilter()
	return m.filter.Focus()
}

// Init initializes the template picker
func (m *TemplatesModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the view dimensions
func (m *TemplatesModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.filter.Width = max(width-10, 20)
	m.pager.SetPageSize(m.listHeight(templatesChrome))
}

// Names returns the templates currently listed
func (m *TemplatesModel) Names() []string {
	return m.names
}

func (m *TemplatesModel) applyFilter() {
	query := strings.TrimSpace(m.filter.Value())
	if query == "" {
		m.names = m.catalog.Names()
	} else {
		m.names = m.names[:0]
		for _, match := range commands.RankTemplates(m.catalog.Names(), query) {
			m.names = append(m.names, match.Name)
		}
	}
	m.pager.Reset()
	m.pager.SetTotal(len(m.names))
}

// Update handles messages for the template picker
func (m *TemplatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.confirming {
			return m, m.updateConfirm(msg)
		}

		switch {
		case key.Matches(msg, TemplatesKeys.Cancel):
			m.filter.Blur()
			return m, switchTo(SwitchToBrowserMsg{})
		case key.Matches(msg, TemplatesKeys.Up):
			m.pager.CursorUp()
			return m, nil
		case key.Matches(msg, TemplatesKeys.Down):
			m.pager.CursorDown()
			return m, nil
		case key.Matches(msg, TemplatesKeys.Select):
			if len(m.names) == 0 {
				return m, nil
			}
			if m.session.HasTree() {
				m.confirming = true
				return m, nil
			}
			return m, m.use()
		}
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

func (m *TemplatesModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, DefaultConfirmKeys.Confirm):
		m.confirming = false
		return m.use()
	case key.Matches(msg, DefaultConfirmKeys.Cancel):
		m.confirming = false
	}
	return nil
}

func (m *TemplatesModel) use() tea.Cmd {
	name := m.names[m.pager.Cursor()]
	result, err := commands.NewUseTemplateCommand(m.session, m.catalog, name).Execute(context.Background())
	if err != nil {
		m.SetError(err)
		return nil
	}
	m.filter.Blur()
	return switchTo(TreeReplacedMsg{Tree: result.Tree, Message: result.Message})
}

// View renders the template picker
func (m *TemplatesModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Templates"))
	b.WriteString("\n")
	b.WriteString(styles.InputFocused.Render(m.filter.View()))
	b.WriteString("\n\n")

	if len(m.names) == 0 {
		b.WriteString(styles.MutedText.Render("No templates match"))
		b.WriteString("\n")
	}
	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.renderTemplate(m.names[i], i == m.pager.Cursor()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n")
	}
	if m.confirming {
		b.WriteString(RenderConfirmPrompt(fmt.Sprintf("Replace the current tree with %q?", m.names[m.pager.Cursor()])))
	} else {
		b.WriteString(RenderHelpLine(TemplatesKeys.Up, TemplatesKeys.Down, TemplatesKeys.Select, TemplatesKeys.Cancel))
	}
	return styles.App.Render(b.String())
}

func (m *TemplatesModel) renderTemplate(name string, selected bool) string {
	info, _ := m.catalog.Info(name)
	line := fmt.Sprintf("%s %s", info.Icon, name)
	if selected {
		line = styles.HelpKey.Render("> ") + styles.NodeSelected.Render(line)
	} else {
		line = "  " + line
	}
	return fmt.Sprintf("%s  %s", line, styles.MutedText.Render(info.Category+" · "+info.Description))
}
