package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/adapters/tui/styles"
)

// InputFormKeyMap holds the keys shared by every single-line prompt
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
}

// InputField is one labelled line of text
type InputField struct {
	Label string
	Input textinput.Model
}

// NewInputField builds a field; limit <= 0 keeps the textinput default
func NewInputField(label, placeholder string, limit int) InputField {
	in := textinput.New()
	in.Placeholder = placeholder
	if limit > 0 {
		in.CharLimit = limit
	}
	return InputField{Label: label, Input: in}
}

// InputForm is a small stack of InputFields with one focused at a time.
// The tree title prompt on onboarding and the version label prompt use it.
type InputForm struct {
	Fields []InputField
	Keys   InputFormKeyMap
	focus  int
}

func NewInputForm(fields ...InputField) *InputForm {
	f := &InputForm{Fields: fields, Keys: DefaultInputFormKeys}
	f.focusOn(0)
	return f
}

func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update cycles focus on tab/shift+tab and feeds everything else to the
// focused field. handled is true when the key only moved focus.
func (f *InputForm) Update(msg tea.Msg) (handled bool, cmd tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && len(f.Fields) > 1 {
		switch {
		case key.Matches(keyMsg, f.Keys.Next):
			f.focusOn((f.focus + 1) % len(f.Fields))
			return true, nil
		case key.Matches(keyMsg, f.Keys.Prev):
			f.focusOn((f.focus + len(f.Fields) - 1) % len(f.Fields))
			return true, nil
		}
	}
	if f.focus < len(f.Fields) {
		f.Fields[f.focus].Input, cmd = f.Fields[f.focus].Input.Update(msg)
	}
	return false, cmd
}

func (f *InputForm) focusOn(i int) {
	if i < 0 || i >= len(f.Fields) {
		return
	}
	for j := range f.Fields {
		f.Fields[j].Input.Blur()
	}
	f.focus = i
	f.Fields[i].Input.Focus()
}

// Value is the trimmed text of field i, or "" when i is out of range
func (f *InputForm) Value(i int) string {
	if i < 0 || i >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[i].Input.Value())
}

func (f *InputForm) Values() []string {
	out := make([]string, len(f.Fields))
	for i := range out {
		out[i] = f.Value(i)
	}
	return out
}

func (f *InputForm) SetValue(i int, v string) {
	if i >= 0 && i < len(f.Fields) {
		f.Fields[i].Input.SetValue(v)
	}
}

// Reset empties every field and focuses the first one
func (f *InputForm) Reset() {
	for i := range f.Fields {
		f.Fields[i].Input.SetValue("")
	}
	f.focusOn(0)
}

func (f *InputForm) RenderField(i int) string {
	if i < 0 || i >= len(f.Fields) {
		return ""
	}
	frame := styles.InputField
	if i == f.focus {
		frame = styles.InputFocused
	}
	return styles.InputLabel.Render(f.Fields[i].Label) + "\n" + frame.Render(f.Fields[i].Input.View())
}

// RenderHelp lists the form keys with submit described as action
func (f *InputForm) RenderHelp(action string) string {
	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", action))
	if len(f.Fields) > 1 {
		return RenderHelpLine(f.Keys.Next, submit, f.Keys.Cancel)
	}
	return RenderHelpLine(submit, f.Keys.Cancel)
}
