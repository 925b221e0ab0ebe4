package views

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/adapters/tui/styles"
	"prompttree/internal/application"
	"prompttree/internal/application/commands"
)

// NodeFormKeyMap defines key bindings for the node form
type NodeFormKeyMap struct {
	Submit key.Binding
	Next   key.Binding
	Prev   key.Binding
	Cancel key.Binding
}

var NodeFormKeys = NodeFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev field"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

const (
	fieldTitle = iota
	fieldContent
	fieldExamples
	fieldCount
)

// NodeFormModel adds a child under a node or edits a node in place
type NodeFormModel struct {
	ViewState
	session  *application.Session
	mode     FormMode
	nodeID   string
	title    textinput.Model
	content  textarea.Model
	examples textarea.Model
	focus    int
}

// NewNodeFormModel creates a node form
func NewNodeFormModel(session *application.Session) *NodeFormModel {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Prompt content"
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.SetHeight(8)

	examples := textarea.New()
	examples.Placeholder = "One example per line"
	examples.ShowLineNumbers = false
	examples.CharLimit = 0
	examples.SetHeight(4)

	return &NodeFormModel{
		session:  session,
		title:    title,
		content:  content,
		examples: examples,
	}
}

// Open prepares the form for mode on nodeID. In edit mode the fields are
// prefilled from the node.
func (m *NodeFormModel) Open(mode FormMode, nodeID string) {
	m.mode = mode
	m.nodeID = nodeID
	m.ClearMessage()
	m.title.SetValue("")
	m.content.SetValue("")
	m.examples.SetValue("")

	if mode == FormEdit && m.session.HasTree() {
		if n := m.session.Tree().FindNode(nodeID); n != nil {
			m.title.SetValue(n.Title)
			m.content.SetValue(n.Content)
			m.examples.SetValue(strings.Join(n.Examples, "\n"))
		}
	}
	m.setFocus(fieldTitle)
}

// Init initializes the form
func (m *NodeFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the view dimensions and resizes the text areas
func (m *NodeFormModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	w := max(width-8, 20)
	m.title.Width = w
	m.content.SetWidth(w)
	m.examples.SetWidth(w)
}

// Update handles messages for the form
func (m *NodeFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, NodeFormKeys.Cancel):
			return m, switchTo(SwitchToBrowserMsg{})
		case key.Matches(msg, NodeFormKeys.Submit):
			return m, m.submit()
		case key.Matches(msg, NodeFormKeys.Next):
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case key.Matches(msg, NodeFormKeys.Prev):
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case msg.Type == tea.KeyEnter && m.focus == fieldTitle:
			m.setFocus(fieldContent)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldContent:
		m.content, cmd = m.content.Update(msg)
	case fieldExamples:
		m.examples, cmd = m.examples.Update(msg)
	}
	return m, cmd
}

func (m *NodeFormModel) setFocus(field int) {
	m.focus = field
	m.title.Blur()
	m.content.Blur()
	m.examples.Blur()
	switch field {
	case fieldTitle:
		m.title.Focus()
	case fieldContent:
		m.content.Focus()
	case fieldExamples:
		m.examples.Focus()
	}
}

// Examples parses the examples area, one non-blank line per example
func (m *NodeFormModel) Examples() []string {
	examples := []string{}
	for _, line := range strings.Split(m.examples.Value(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			examples = append(examples, line)
		}
	}
	return examples
}

func (m *NodeFormModel) submit() tea.Cmd {
	ctx := context.Background()
	title := strings.TrimSpace(m.title.Value())
	content := m.content.Value()
	examples := m.Examples()

	if m.mode == FormAdd {
		result, err := commands.NewAddNodeCommand(m.session, m.nodeID, title, content, examples).Execute(ctx)
		if err != nil {
			m.SetError(err)
			return nil
		}
		m.session.Navigator().Select(result.Node.ID)
		return tea.Batch(switchTo(SwitchToBrowserMsg{}), switchTo(statusOK(result.Message)))
	}

	node := m.session.Tree().FindNode(m.nodeID)
	if node == nil {
		m.SetMessage("The node no longer exists", true)
		return nil
	}

	cmd := commands.NewEditNodeCommand(m.session, m.nodeID)
	if title != node.Title {
		cmd.Title = &title
	}
	if content != node.Content {
		cmd.Content = &content
	}
	if !slices.Equal(examples, node.Examples) {
		cmd.Examples = &examples
	}
	if cmd.Title == nil && cmd.Content == nil && cmd.Examples == nil {
		return tea.Batch(switchTo(SwitchToBrowserMsg{}), switchTo(statusOK("No changes")))
	}

	result, err := cmd.Execute(ctx)
	if err != nil {
		m.SetError(err)
		return nil
	}
	return tea.Batch(switchTo(SwitchToBrowserMsg{}), switchTo(statusOK(result.Message)))
}

// View renders the form
func (m *NodeFormModel) View() string {
	heading := "Edit Node"
	subtitle := ""
	if m.mode == FormAdd {
		heading = "Add Child"
		if m.session.HasTree() {
			if parent := m.session.Tree().FindNode(m.nodeID); parent != nil {
				subtitle = "Under " + parent.Title
			}
		}
	}

	v := NewViewBuilder().Title(heading)
	if subtitle != "" {
		v.Subtitle(subtitle)
	}

	v.Line(m.renderField("Title", m.title.View(), fieldTitle)).
		Line(m.renderField("Content", m.content.View(), fieldContent)).
		Line(m.renderField("Examples", m.examples.View(), fieldExamples)).
		Message(m.Message, m.MessageErr).
		Help(NodeFormKeys.Submit, NodeFormKeys.Next, NodeFormKeys.Cancel)
	return v.String()
}

func (m *NodeFormModel) renderField(label, body string, field int) string {
	frame := styles.InputField
	if field == m.focus {
		frame = styles.InputFocused
	}
	return styles.InputLabel.Render(label) + "\n" + frame.Render(body)
}
