package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/adapters/tui/styles"
	"prompttree/internal/application"
	"prompttree/internal/domain"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Scope  key.Binding
	Select key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Scope: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "scope"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go to node"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// searchChrome is the number of rows used around the results list
const searchChrome = 12

// SearchModel is the search overlay. It runs the shared search session on
// every keystroke.
type SearchModel struct {
	ViewState
	session *application.Session
	search  *domain.SearchSession
	input   textinput.Model
	pager   *Paginator
}

// NewSearchModel creates a new search view model
func NewSearchModel(session *application.Session, search *domain.SearchSession) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search titles and content..."
	input.CharLimit = 100

	return &SearchModel{
		session: session,
		search:  search,
		input:   input,
		pager:   NewPaginator(10),
	}
}

// Open focuses the input, keeping the previous query and scope
func (m *SearchModel) Open() tea.Cmd {
	m.ClearMessage()
	m.input.SetValue(m.search.Query())
	m.input.CursorEnd()
	m.run(m.search.Scope())
	return m.input.Focus()
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the view dimensions
func (m *SearchModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.input.Width = max(width-10, 20)
	m.pager.SetPageSize(m.listHeight(searchChrome) / 2)
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			m.input.Blur()
			return m, switchTo(SwitchToBrowserMsg{})

		case key.Matches(msg, SearchKeys.Up):
			m.pager.CursorUp()
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			m.pager.CursorDown()
			return m, nil

		case key.Matches(msg, SearchKeys.Scope):
			m.run(m.search.Scope().Next())
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			return m, m.commit()
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.run(m.search.Scope())
	}
	return m, cmd
}

func (m *SearchModel) run(scope domain.SearchScope) {
	m.search.Run(m.session.Tree(), m.input.Value(), scope)
	m.pager.Reset()
	m.pager.SetTotal(len(m.search.Results()))
}

// commit syncs the shared session cursor with the pager and reveals the
// chosen node in the browser
func (m *SearchModel) commit() tea.Cmd {
	for m.search.Cursor() < m.pager.Cursor() {
		m.search.Down()
	}
	for m.search.Cursor() > m.pager.Cursor() {
		m.search.Up()
	}
	id, ok := m.search.Commit()
	if !ok {
		m.SetMessage("No result selected", true)
		return nil
	}
	m.input.Blur()
	return tea.Batch(switchTo(RevealMsg{NodeID: id}), switchTo(SwitchToBrowserMsg{}))
}

// View renders the search view
func (m *SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Search"))
	b.WriteString("\n")
	b.WriteString(m.renderScopes())
	b.WriteString("\n\n")
	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	results := m.search.Results()
	switch {
	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(styles.MutedText.Render("Type to search"))
		b.WriteString("\n")
	case len(results) == 0:
		b.WriteString(styles.MutedText.Render("No matches"))
		b.WriteString("\n")
	default:
		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			b.WriteString(m.renderResult(results[i], i == m.pager.Cursor()))
		}
		if m.pager.TotalPages() > 1 {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d · %d matches", m.pager.CurrentPage(), m.pager.TotalPages(), len(results))))
			b.WriteString("\n")
		}
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}
	b.WriteString("\n")
	b.WriteString(RenderHelpLine(SearchKeys.Up, SearchKeys.Down, SearchKeys.Scope, SearchKeys.Select, SearchKeys.Cancel))

	return styles.App.Render(b.String())
}

func (m *SearchModel) renderScopes() string {
	var parts []string
	for _, scope := range []domain.SearchScope{domain.ScopeAll, domain.ScopeTitles, domain.ScopeContent} {
		if scope == m.search.Scope() {
			parts = append(parts, styles.HelpKey.Render("["+scope.String()+"]"))
		} else {
			parts = append(parts, styles.HelpDesc.Render(" "+scope.String()+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m *SearchModel) renderResult(r domain.SearchMatch, selected bool) string {
	query := m.search.Query()
	marker := "  "
	if selected {
		marker = styles.HelpKey.Render("> ")
	}

	titleStyle := styles.NodeItemStyle(r.Level)
	title := RenderHighlighted(r.Node.Title, domain.HighlightSpans(r.Node.Title, query), titleStyle)
	if selected {
		title = styles.NodeSelected.Render(r.Node.Title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s\n", marker, title, styles.MutedText.Render("("+string(r.MatchType)+")"))
	if r.Snippet != "" {
		snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
		b.WriteString("    ")
		b.WriteString(RenderHighlighted(snippet, domain.HighlightSpans(snippet, query), styles.MutedText))
		b.WriteString("\n")
	}
	return b.String()
}
