package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/adapters/tui/styles"
	"prompttree/internal/domain"
)

// ConfirmKeyMap is the y/n pair used by every yes/no prompt
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
}

// ConfirmationModel is embedded by views that ask before touching a subtree
type ConfirmationModel struct {
	ViewState
	TargetNode *domain.Node
	Keys       ConfirmKeyMap
}

func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{Keys: DefaultConfirmKeys}
}

// SetTarget points the prompt at node and clears any stale status
func (m *ConfirmationModel) SetTarget(node *domain.Node) {
	m.TargetNode = node
	m.ClearMessage()
}

// HandleKeyMsg runs onConfirm or onCancel for y or n/esc. Other keys are
// ignored and reported as unhandled.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Cmd) (bool, tea.Cmd) {
	if key.Matches(msg, m.Keys.Confirm) {
		return true, onConfirm()
	}
	if key.Matches(msg, m.Keys.Cancel) {
		return true, onCancel()
	}
	return false, nil
}

func RenderConfirmPrompt(question string) string {
	return question + " " +
		styles.HelpKey.Render("y") + styles.HelpDesc.Render(" to confirm, ") +
		styles.HelpKey.Render("n") + styles.HelpDesc.Render(" to cancel")
}

// RenderTargetInfo names the node an action hits and how many
// descendants go with it
func RenderTargetInfo(node *domain.Node, action string) string {
	if node == nil {
		return ""
	}
	lines := []string{
		styles.InputLabel.Render(action + ":"),
		"  " + node.Title + styles.MutedText.Render(" ("+node.ID+")"),
	}
	if n := domain.CountNodes(node) - 1; n > 0 {
		lines = append(lines, "  "+styles.MutedText.Render(fmt.Sprintf("and %d descendant node(s)", n)))
	}
	return strings.Join(lines, "\n")
}
