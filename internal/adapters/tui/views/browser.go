package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/adapters/tui/styles"
	"prompttree/internal/application"
	"prompttree/internal/application/commands"
	"prompttree/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	First     key.Binding
	Last      key.Binding
	Toggle    key.Binding
	ExpandAll key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Grab      key.Binding
	Cancel    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Search    key.Binding
	Versions  key.Binding
	Save      key.Binding
	Export    key.Binding
	Templates key.Binding
	Editor    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	First: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first"),
	),
	Last: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "toggle/drop"),
	),
	ExpandAll: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "expand all"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add child"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "delete"),
	),
	Grab: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "grab"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Versions: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "versions"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save version"),
	),
	Export: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "export"),
	),
	Templates: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "templates"),
	),
	Editor: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "$EDITOR"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// browserChrome is the number of rows used around the node list
const browserChrome = 14

// BrowserModel is the model for the tree browser view
type BrowserModel struct {
	ViewState
	session *application.Session
	search  *domain.SearchSession
	grabbed string
	offset  int
}

// NewBrowserModel creates a new browser model. The search session is shared
// with the search overlay so committed results stay highlighted.
func NewBrowserModel(session *application.Session, search *domain.SearchSession) *BrowserModel {
	return &BrowserModel{
		session: session,
		search:  search,
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Grabbed returns the ID of the node picked up for a drop, if any
func (m *BrowserModel) Grabbed() string {
	return m.grabbed
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case StatusMsg:
		m.SetMessage(msg.Text, msg.Err)
		return m, nil

	case RevealMsg:
		m.session.Navigator().Reveal(msg.NodeID)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	nav := m.session.Navigator()
	ctx := context.Background()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		nav.Up()
	case key.Matches(msg, BrowserKeys.Down):
		nav.Down()
	case key.Matches(msg, BrowserKeys.Left):
		nav.Left()
	case key.Matches(msg, BrowserKeys.Right):
		nav.Right()
	case key.Matches(msg, BrowserKeys.First):
		nav.First()
	case key.Matches(msg, BrowserKeys.Last):
		nav.Last()
	case key.Matches(msg, BrowserKeys.ExpandAll):
		nav.ExpandAll()

	case key.Matches(msg, BrowserKeys.Toggle):
		if m.grabbed != "" {
			m.drop(ctx)
			return nil
		}
		nav.Toggle(nav.Selected())

	case key.Matches(msg, BrowserKeys.Cancel):
		if m.grabbed != "" {
			m.grabbed = ""
			m.SetMessage("Move cancelled", false)
			return nil
		}
		m.search.Reset()

	case key.Matches(msg, BrowserKeys.Grab):
		m.grab()

	case key.Matches(msg, BrowserKeys.MoveUp):
		m.shift(ctx, -1)
	case key.Matches(msg, BrowserKeys.MoveDown):
		m.shift(ctx, 1)

	case key.Matches(msg, BrowserKeys.Add):
		if req, ok := nav.RequestAddChild(); ok {
			return switchTo(SwitchToFormMsg{Mode: FormAdd, NodeID: req.NodeID})
		}
	case key.Matches(msg, BrowserKeys.Edit):
		if req, ok := nav.RequestEdit(); ok {
			return switchTo(SwitchToFormMsg{Mode: FormEdit, NodeID: req.NodeID})
		}
	case key.Matches(msg, BrowserKeys.Editor):
		if node := nav.SelectedNode(); node != nil {
			return switchTo(OpenEditorMsg{NodeID: node.ID})
		}

	case key.Matches(msg, BrowserKeys.Delete):
		node := nav.SelectedNode()
		if node == nil {
			return nil
		}
		if node.ID == m.session.Tree().RootNode.ID {
			m.SetMessage("The root node cannot be deleted", true)
			return nil
		}
		return switchTo(SwitchToDeleteMsg{NodeID: node.ID})

	case key.Matches(msg, BrowserKeys.Save):
		result, err := commands.NewSaveVersionCommand(m.session, "").Execute(ctx)
		if err != nil {
			m.SetError(err)
			return nil
		}
		m.SetMessage(result.Message, false)

	case key.Matches(msg, BrowserKeys.Search):
		return switchTo(SwitchToSearchMsg{})
	case key.Matches(msg, BrowserKeys.Versions):
		return switchTo(SwitchToVersionsMsg{})
	case key.Matches(msg, BrowserKeys.Export):
		return switchTo(SwitchToExportMsg{})
	case key.Matches(msg, BrowserKeys.Templates):
		return switchTo(SwitchToTemplatesMsg{})
	case key.Matches(msg, BrowserKeys.Help):
		return switchTo(SwitchToHelpMsg{})
	}
	return nil
}

func (m *BrowserModel) grab() {
	node := m.session.Navigator().SelectedNode()
	if node == nil {
		return
	}
	if node.ID == m.session.Tree().RootNode.ID {
		m.SetMessage("The root node cannot be moved", true)
		return
	}
	m.grabbed = node.ID
	m.SetMessage(fmt.Sprintf("Moving %q: select a target and press enter", node.Title), false)
}

func (m *BrowserModel) drop(ctx context.Context) {
	source := m.grabbed
	m.grabbed = ""

	plan, err := commands.NewDropCommand(m.session, source, m.session.Navigator().Selected()).Execute(ctx)
	if err != nil {
		m.SetError(err)
		return
	}

	title := m.session.Tree().FindNode(source).Title
	switch plan.Kind {
	case domain.DropReorder:
		m.SetMessage(fmt.Sprintf("Reordered %q to position %d", title, plan.ToIndex+1), false)
	default:
		parent := m.session.Tree().FindNode(plan.ParentID)
		m.SetMessage(fmt.Sprintf("Moved %q under %q", title, parent.Title), false)
	}
}

// shift moves the selected node one place among its siblings
func (m *BrowserModel) shift(ctx context.Context, delta int) {
	selected := m.session.Navigator().Selected()
	parent := m.session.Tree().FindParent(selected)
	if parent == nil {
		return
	}
	from := parent.ChildIndex(selected)
	to := from + delta
	if to < 0 || to >= len(parent.Children) {
		return
	}
	if _, err := commands.NewReorderCommand(m.session, parent.ID, from, to).Execute(ctx); err != nil {
		m.SetError(err)
	}
}

func switchTo(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the browser
func (m *BrowserModel) View() string {
	tree := m.session.Tree()
	if tree == nil {
		return "No tree loaded."
	}
	nav := m.session.Navigator()

	var b strings.Builder
	b.WriteString(styles.Title.Render(tree.Title))
	b.WriteString("\n")
	if tree.Description != "" {
		b.WriteString(styles.Subtitle.Render(tree.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	visible := nav.Visible()
	selected := nav.Selected()
	start, end := m.window(visible, selected)
	highlighted := m.search.Highlighted()
	for _, fn := range visible[start:end] {
		b.WriteString(m.renderNode(fn, fn.Node.ID == selected, highlighted[fn.Node.ID]))
		b.WriteString("\n")
	}
	if end < len(visible) {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  … %d more", len(visible)-end)))
		b.WriteString("\n")
	}

	if node := nav.SelectedNode(); node != nil {
		b.WriteString("\n")
		b.WriteString(m.renderDetail(node))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")

	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n")
	}

	b.WriteString(RenderHelpLine(
		BrowserKeys.Add, BrowserKeys.Edit, BrowserKeys.Delete, BrowserKeys.Grab,
		BrowserKeys.Search, BrowserKeys.Versions, BrowserKeys.Export, BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

// window returns the slice bounds of the visible list to draw so that the
// selection stays on screen
func (m *BrowserModel) window(visible []domain.FlatNode, selected string) (int, int) {
	rows := m.listHeight(browserChrome)
	if len(visible) <= rows {
		m.offset = 0
		return 0, len(visible)
	}

	cursor := 0
	for i, fn := range visible {
		if fn.Node.ID == selected {
			cursor = i
			break
		}
	}
	if cursor < m.offset {
		m.offset = cursor
	} else if cursor >= m.offset+rows {
		m.offset = cursor - rows + 1
	}
	m.offset = min(m.offset, len(visible)-rows)
	return m.offset, m.offset + rows
}

func (m *BrowserModel) renderNode(fn domain.FlatNode, selected, matched bool) string {
	node := fn.Node
	indent := strings.Repeat("  ", fn.Level)

	var prefix string
	switch {
	case node.IsLeaf():
		prefix = styles.TreeLeaf
	case m.session.Navigator().IsExpanded(node.ID):
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	title := node.Title
	if title == "" {
		title = "(untitled)"
	}

	style := styles.NodeItemStyle(fn.Level)
	if matched {
		style = style.Inherit(styles.NodeMatched)
	}

	var text string
	switch {
	case node.ID == m.grabbed:
		text = styles.NodeGrabbed.Render(title)
	case selected:
		text = styles.NodeSelected.Render(title)
	case matched && m.search.Query() != "":
		text = RenderHighlighted(title, domain.HighlightSpans(title, m.search.Query()), style)
	default:
		text = style.Render(title)
	}

	if node.Content != "" {
		text += styles.ContentBadge.Render(" •")
	}
	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), text)
}

func (m *BrowserModel) renderDetail(node *domain.Node) string {
	width := max(m.Width-10, 20)

	var lines []string
	if node.Content == "" {
		lines = append(lines, styles.MutedText.Render("No content. Press e to edit or ctrl+e for $EDITOR."))
	} else {
		for i, line := range strings.Split(node.Content, "\n") {
			if i == 3 {
				lines = append(lines, styles.MutedText.Render("…"))
				break
			}
			lines = append(lines, Truncate(line, width))
		}
	}
	if n := len(node.Examples); n > 0 {
		lines = append(lines, styles.MutedText.Render(fmt.Sprintf("%d example(s)", n)))
	}
	return styles.Detail.Render(strings.Join(lines, "\n"))
}

func (m *BrowserModel) renderStats() string {
	st := m.session.Stats()
	text := fmt.Sprintf("%d nodes · %d with content · depth %d · %d versions",
		st.Nodes, st.NodesWithContent, st.Depth, m.session.Versions().Len())
	if q := m.search.Query(); q != "" {
		text += fmt.Sprintf(" · %d matches for %q (esc clears)", len(m.search.Results()), q)
	}
	return styles.StatusText.Render(text)
}
