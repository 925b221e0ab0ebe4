package views

import "prompttree/internal/domain"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// SetError shows err, or clears the message when err is nil
func (s *ViewState) SetError(err error) {
	if err == nil {
		s.ClearMessage()
		return
	}
	s.SetMessage(err.Error(), true)
}

// listHeight is the number of list rows that fit below a view's header and
// help line
func (s *ViewState) listHeight(chrome int) int {
	if s.Height <= 0 {
		return 10
	}
	return max(s.Height-chrome, 3)
}

// FormMode selects between adding a child and editing a node
type FormMode int

const (
	FormAdd FormMode = iota
	FormEdit
)

// Messages for view switching

type SwitchToBrowserMsg struct{}

type SwitchToFormMsg struct {
	Mode   FormMode
	NodeID string
}

type SwitchToSearchMsg struct{}

type SwitchToDeleteMsg struct {
	NodeID string
}

type SwitchToVersionsMsg struct{}

type SwitchToExportMsg struct{}

type SwitchToTemplatesMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToOnboardingMsg struct{}

// OpenEditorMsg asks the app to edit a node's content in $EDITOR
type OpenEditorMsg struct {
	NodeID string
}

// StatusMsg reports the outcome of an action back to the browser
type StatusMsg struct {
	Text string
	Err  bool
}

// RevealMsg asks the browser to expand ancestors of and select a node
type RevealMsg struct {
	NodeID string
}

// TreeReplacedMsg reports that the working tree was swapped, by a template,
// a restore or onboarding
type TreeReplacedMsg struct {
	Tree    *domain.Tree
	Message string
}

func statusOK(text string) StatusMsg {
	return StatusMsg{Text: text}
}

func statusErr(err error) StatusMsg {
	return StatusMsg{Text: err.Error(), Err: true}
}
