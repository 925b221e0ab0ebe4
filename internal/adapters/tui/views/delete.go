package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/adapters/tui/styles"
	"prompttree/internal/application"
)

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	ConfirmationModel
	session *application.Session
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(session *application.Session) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		session:           session,
	}
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			m.doDelete,
			func() tea.Cmd { return switchTo(SwitchToBrowserMsg{}) },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

// doDelete removes the target through the navigator so the selection lands
// on the neighbouring visible node
func (m *DeleteModel) doDelete() tea.Cmd {
	if m.TargetNode == nil {
		m.SetMessage("no target selected", true)
		return nil
	}
	target := m.TargetNode
	nav := m.session.Navigator()
	if !nav.Select(target.ID) {
		return tea.Batch(switchTo(SwitchToBrowserMsg{}), switchTo(statusErr(fmt.Errorf("node %s no longer exists", target.ID))))
	}

	status, err := m.session.DeleteSelected(context.Background())
	if serr := application.StatusError("delete", target.ID, status); serr != nil {
		err = serr
	}
	m.TargetNode = nil
	if err != nil {
		return tea.Batch(switchTo(SwitchToBrowserMsg{}), switchTo(statusErr(err)))
	}
	return tea.Batch(switchTo(SwitchToBrowserMsg{}), switchTo(statusOK(fmt.Sprintf("Deleted %q", target.Title))))
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Delete Node"))
	b.WriteString("\n")

	b.WriteString(RenderTargetInfo(m.TargetNode, "Delete"))
	b.WriteString("\n\n")

	b.WriteString(styles.MutedText.Render("Save a version first (s) if you may want it back."))
	b.WriteString("\n\n")

	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n\n")
	}

	b.WriteString(RenderConfirmPrompt("Are you sure?"))

	return styles.App.Render(b.String())
}
