package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/application"
	"prompttree/internal/application/commands"
)

// OnboardingKeyMap defines key bindings for the start screen
type OnboardingKeyMap struct {
	New       key.Binding
	Templates key.Binding
	Quit      key.Binding
}

var OnboardingKeys = OnboardingKeyMap{
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new tree"),
	),
	Templates: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "from template"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// OnboardingModel is shown when no tree exists yet
type OnboardingModel struct {
	ViewState
	session  *application.Session
	form     *InputForm
	creating bool
}

// NewOnboardingModel creates the start screen
func NewOnboardingModel(session *application.Session) *OnboardingModel {
	return &OnboardingModel{
		session: session,
		form: NewInputForm(
			NewInputField("Title", "My prompt", 120),
			NewInputField("Description", "What this prompt is for (optional)", 300),
		),
	}
}

// Open returns to the choice screen
func (m *OnboardingModel) Open() {
	m.creating = false
	m.ClearMessage()
}

// Creating reports whether the title form is shown
func (m *OnboardingModel) Creating() bool {
	return m.creating
}

// Init initializes the start screen
func (m *OnboardingModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the start screen
func (m *OnboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.creating {
			_, cmd := m.form.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.creating {
		return m, m.updateForm(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, OnboardingKeys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, OnboardingKeys.New):
		m.creating = true
		m.ClearMessage()
		m.form.Reset()
		return m, m.form.Init()
	case key.Matches(keyMsg, OnboardingKeys.Templates):
		return m, switchTo(SwitchToTemplatesMsg{})
	}
	return m, nil
}

func (m *OnboardingModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.form.Keys.Cancel):
		m.creating = false
		m.ClearMessage()
		return nil
	case key.Matches(msg, m.form.Keys.Submit):
		values := m.form.Values()
		result, err := commands.NewCreateTreeCommand(m.session, values[0], values[1]).Execute(context.Background())
		if err != nil {
			m.SetError(err)
			return nil
		}
		m.creating = false
		return switchTo(TreeReplacedMsg{Tree: result.Tree, Message: result.Message})
	}

	_, cmd := m.form.Update(msg)
	return cmd
}

// View renders the start screen
func (m *OnboardingModel) View() string {
	vb := NewViewBuilder()
	vb.Title("Prompt Tree")
	vb.Subtitle("Build structured prompts as a tree of sections")
	vb.BlankLine()

	if m.creating {
		var b strings.Builder
		for i := range m.form.Fields {
			b.WriteString(m.form.RenderField(i))
			b.WriteString("\n\n")
		}
		vb.Line(b.String())
		vb.Message(m.Message, m.MessageErr)
		vb.Line(m.form.RenderHelp("create"))
		return vb.String()
	}

	vb.Line("No prompt tree yet. Start from scratch or pick a template.")
	vb.BlankLine()
	vb.Message(m.Message, m.MessageErr)
	vb.Help(OnboardingKeys.New, OnboardingKeys.Templates, OnboardingKeys.Quit)
	return vb.String()
}
