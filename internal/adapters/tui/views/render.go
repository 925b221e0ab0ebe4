package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"prompttree/internal/adapters/tui/styles"
	"prompttree/internal/domain"
)

// RenderHelpLine joins bindings as "key desc" pairs
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage styles a status line; empty stays empty
func RenderMessage(message string, isError bool) string {
	switch {
	case message == "":
		return ""
	case isError:
		return styles.ErrorMsg.Render(message)
	default:
		return styles.Success.Render(message)
	}
}

// RenderHighlighted paints the rune spans of text as search matches and
// the rest with base. Spans must be sorted and non-overlapping.
func RenderHighlighted(text string, spans []domain.Span, base lipgloss.Style) string {
	runes := []rune(text)
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.Start > pos {
			b.WriteString(base.Render(string(runes[pos:sp.Start])))
		}
		b.WriteString(styles.SearchMatch.Render(string(runes[sp.Start:sp.End])))
		pos = sp.End
	}
	if pos < len(runes) || len(spans) == 0 {
		b.WriteString(base.Render(string(runes[pos:])))
	}
	return b.String()
}

// Truncate cuts s to width runes, the last one an ellipsis
func Truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func FirstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// ViewBuilder accumulates the lines of a full-screen view
type ViewBuilder struct {
	b strings.Builder
}

func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

func (v *ViewBuilder) write(s ...string) *ViewBuilder {
	for _, part := range s {
		v.b.WriteString(part)
	}
	return v
}

func (v *ViewBuilder) Title(title string) *ViewBuilder {
	return v.write(styles.Title.Render(title), "\n")
}

func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	return v.write(styles.Subtitle.Render(subtitle), "\n\n")
}

func (v *ViewBuilder) Line(text string) *ViewBuilder {
	return v.write(text, "\n")
}

func (v *ViewBuilder) BlankLine() *ViewBuilder {
	return v.write("\n")
}

// Message is skipped when empty
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	return v.write(RenderMessage(message, isError), "\n\n")
}

func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	return v.write(RenderHelpLine(bindings...))
}

// String wraps everything in the app frame
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
