package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

func browserHelp() []helpSection {
	k := BrowserKeys
	return []helpSection{
		{"Navigation", []key.Binding{k.Up, k.Down, k.Left, k.Right, k.First, k.Last, k.Toggle, k.ExpandAll}},
		{"Editing", []key.Binding{k.Add, k.Edit, k.Editor, k.Delete}},
		{"Moving", []key.Binding{k.Grab, k.MoveUp, k.MoveDown, k.Cancel}},
		{"Tree", []key.Binding{k.Search, k.Versions, k.Save, k.Export, k.Templates}},
		{"General", []key.Binding{k.Help, k.Quit}},
	}
}

// HelpModel lists every browser key binding
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, HelpKeys.Close) {
		return m, switchTo(SwitchToBrowserMsg{})
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Help"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Grab a node with m, move the cursor, then press enter to drop it"))
	b.WriteString("\n\n")

	for _, section := range browserHelp() {
		b.WriteString(styles.InputLabel.Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			b.WriteString(helpLine(strings.Join(binding.Keys(), " / "), binding.Help().Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(RenderHelpLine(HelpKeys.Close))

	return styles.App.Render(b.String())
}

func helpLine(keys, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(keys, 22)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}
