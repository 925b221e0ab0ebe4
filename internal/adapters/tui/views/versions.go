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

// VersionsKeyMap defines key bindings for the version history view
type VersionsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Restore key.Binding
	Save    key.Binding
	Rename  key.Binding
	Delete  key.Binding
	Mark    key.Binding
	Compare key.Binding
	Back    key.Binding
}

var VersionsKeys = VersionsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "down"),
	),
	Restore: key.NewBinding(
		key.WithKeys("enter", "r"),
		key.WithHelp("enter", "restore"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Rename: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "x"),
		key.WithHelp("d", "delete"),
	),
	Mark: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "mark"),
	),
	Compare: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "compare marked"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q", "v"),
		key.WithHelp("esc", "back"),
	),
}

type versionsMode int

const (
	versionsList versionsMode = iota
	versionsLabel
	versionsConfirm
)

// versionsChrome is the number of rows used around the version list
const versionsChrome = 12

// VersionsModel lists saved versions and manages restore, rename, delete
// and compare
type VersionsModel struct {
	ViewState
	session *application.Session
	pager   *Paginator
	mode    versionsMode
	form    *InputForm

	// renaming is the version being relabelled; empty when saving a new one
	renaming string
	// confirming is the pending action in versionsConfirm mode
	confirming string
	marked     []string
	comparison string
}

// NewVersionsModel creates a new version history view
func NewVersionsModel(session *application.Session) *VersionsModel {
	return &VersionsModel{
		session: session,
		pager:   NewPaginator(10),
		form:    NewInputForm(NewInputField("Label", "Version label (blank for automatic)", 100)),
	}
}

// Open refreshes the list and returns to list mode
func (m *VersionsModel) Open() {
	m.mode = versionsList
	m.marked = nil
	m.comparison = ""
	m.ClearMessage()
	m.pager.Reset()
	m.pager.SetTotal(m.session.Versions().Len())
}

// Init initializes the versions view
func (m *VersionsModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions
func (m *VersionsModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(m.listHeight(versionsChrome))
}

// Update handles messages for the versions view
func (m *VersionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == versionsLabel {
			_, cmd := m.form.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.mode {
	case versionsLabel:
		return m, m.updateLabel(keyMsg)
	case versionsConfirm:
		return m, m.updateConfirm(keyMsg)
	default:
		return m, m.updateList(keyMsg)
	}
}

func (m *VersionsModel) selected() (domain.VersionSummary, bool) {
	list := m.session.Versions().List()
	i := m.pager.Cursor()
	if i < 0 || i >= len(list) {
		return domain.VersionSummary{}, false
	}
	return list[i], true
}

func (m *VersionsModel) updateList(msg tea.KeyMsg) tea.Cmd {
	m.ClearMessage()

	switch {
	case key.Matches(msg, VersionsKeys.Back):
		return switchTo(SwitchToBrowserMsg{})

	case key.Matches(msg, VersionsKeys.Up):
		m.pager.CursorUp()
	case key.Matches(msg, VersionsKeys.Down):
		m.pager.CursorDown()

	case key.Matches(msg, VersionsKeys.Save):
		if !m.session.HasTree() {
			m.SetError(application.ErrNoTree)
			return nil
		}
		m.renaming = ""
		m.form.Reset()
		m.mode = versionsLabel
		return m.form.Init()

	case key.Matches(msg, VersionsKeys.Rename):
		if v, ok := m.selected(); ok {
			m.renaming = v.ID
			m.form.Reset()
			m.form.SetValue(0, v.Label)
			m.mode = versionsLabel
			return m.form.Init()
		}

	case key.Matches(msg, VersionsKeys.Restore):
		if _, ok := m.selected(); ok {
			m.confirming = "restore"
			m.mode = versionsConfirm
		}

	case key.Matches(msg, VersionsKeys.Delete):
		if _, ok := m.selected(); ok {
			m.confirming = "delete"
			m.mode = versionsConfirm
		}

	case key.Matches(msg, VersionsKeys.Mark):
		if v, ok := m.selected(); ok {
			m.toggleMark(v.ID)
		}

	case key.Matches(msg, VersionsKeys.Compare):
		m.compare()
	}
	return nil
}

// toggleMark marks up to two versions for comparison, dropping the oldest
// mark when a third is added
func (m *VersionsModel) toggleMark(id string) {
	for i, marked := range m.marked {
		if marked == id {
			m.marked = append(m.marked[:i], m.marked[i+1:]...)
			return
		}
	}
	m.marked = append(m.marked, id)
	if len(m.marked) > 2 {
		m.marked = m.marked[1:]
	}
}

func (m *VersionsModel) compare() {
	if len(m.marked) != 2 {
		m.SetMessage("Mark two versions with space to compare", true)
		return
	}
	cmp, err := commands.NewCompareVersionsCommand(m.session, m.marked[0], m.marked[1]).Execute(context.Background())
	if err != nil {
		m.SetError(err)
		return
	}
	m.comparison = FormatComparison(*cmp)
}

// FormatComparison describes the node count change between two versions
func FormatComparison(cmp domain.Comparison) string {
	sign := ""
	if cmp.NodeCountDiff > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s (%d nodes) → %s (%d nodes): %s%d nodes",
		cmp.A.Label, cmp.A.NodeCount, cmp.B.Label, cmp.B.NodeCount, sign, cmp.NodeCountDiff)
}

func (m *VersionsModel) updateLabel(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.form.Keys.Cancel):
		m.mode = versionsList
		return nil

	case key.Matches(msg, m.form.Keys.Submit):
		ctx := context.Background()
		label := m.form.Value(0)
		var (
			result *commands.VersionResult
			err    error
		)
		if m.renaming == "" {
			result, err = commands.NewSaveVersionCommand(m.session, label).Execute(ctx)
		} else {
			result, err = commands.NewRenameVersionCommand(m.session, m.renaming, label).Execute(ctx)
		}
		if err != nil {
			m.SetError(err)
			return nil
		}
		m.mode = versionsList
		m.pager.SetTotal(m.session.Versions().Len())
		if m.renaming == "" {
			m.pager.SetCursor(0)
		}
		m.SetMessage(result.Message, false)
		return nil
	}

	_, cmd := m.form.Update(msg)
	return cmd
}

func (m *VersionsModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, DefaultConfirmKeys.Cancel):
		m.mode = versionsList
		return nil
	case !key.Matches(msg, DefaultConfirmKeys.Confirm):
		return nil
	}

	m.mode = versionsList
	v, ok := m.selected()
	if !ok {
		return nil
	}
	ctx := context.Background()

	if m.confirming == "restore" {
		result, err := commands.NewRestoreVersionCommand(m.session, v.ID).Execute(ctx)
		if err != nil {
			m.SetError(err)
			return nil
		}
		return switchTo(TreeReplacedMsg{Tree: m.session.Tree(), Message: result.Message})
	}

	result, err := commands.NewDeleteVersionCommand(m.session, v.ID).Execute(ctx)
	if err != nil {
		m.SetError(err)
		return nil
	}
	m.pager.RemoveAtCursor()
	m.marked = nil
	m.comparison = ""
	m.SetMessage(result.Message, false)
	return nil
}

// View renders the versions view
func (m *VersionsModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Version History"))
	b.WriteString("\n")

	list := m.session.Versions().List()
	if len(list) == 0 {
		b.WriteString(styles.MutedText.Render("No versions yet. Press s to save one."))
		b.WriteString("\n")
	}

	start, end := m.pager.VisibleRange()
	for i := start; i < end && i < len(list); i++ {
		b.WriteString(m.renderVersion(i, list[i]))
		b.WriteString("\n")
	}
	if m.pager.TotalPages() > 1 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d", m.pager.CurrentPage(), m.pager.TotalPages())))
		b.WriteString("\n")
	}

	if m.comparison != "" {
		b.WriteString("\n")
		b.WriteString(styles.Detail.Render(m.comparison))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case versionsLabel:
		b.WriteString(m.form.RenderField(0))
		b.WriteString("\n")
		if m.Message != "" {
			b.WriteString(RenderMessage(m.Message, m.MessageErr))
			b.WriteString("\n")
		}
		b.WriteString(m.form.RenderHelp("save"))
	case versionsConfirm:
		v, _ := m.selected()
		verb := "Restore"
		if m.confirming == "delete" {
			verb = "Delete"
		}
		b.WriteString(RenderConfirmPrompt(fmt.Sprintf("%s %q?", verb, v.Label)))
	default:
		if m.Message != "" {
			b.WriteString(RenderMessage(m.Message, m.MessageErr))
			b.WriteString("\n")
		}
		b.WriteString(RenderHelpLine(VersionsKeys.Restore, VersionsKeys.Save, VersionsKeys.Rename,
			VersionsKeys.Delete, VersionsKeys.Mark, VersionsKeys.Compare, VersionsKeys.Back))
	}

	return styles.App.Render(b.String())
}

func (m *VersionsModel) renderVersion(i int, v domain.VersionSummary) string {
	mark := " "
	for _, id := range m.marked {
		if id == v.ID {
			mark = "*"
		}
	}
	line := fmt.Sprintf("%s #%-3d %s  %-30s %4d nodes  %s",
		mark, i+1, v.Timestamp.Local().Format("2006-01-02 15:04"), Truncate(v.Label, 30), v.NodeCount, Truncate(v.TreeTitle, 30))
	if i == m.pager.Cursor() {
		return styles.NodeSelected.Render(line)
	}
	return line
}
