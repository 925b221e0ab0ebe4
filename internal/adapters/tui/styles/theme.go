// Package styles holds the lipgloss palette of the prompt tree editor.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Accent  = lipgloss.Color("#0EA5E9")
	Good    = lipgloss.Color("#22C55E")
	Dim     = lipgloss.Color("#64748B")
	Caution = lipgloss.Color("#FACC15")
	Bad     = lipgloss.Color("#F43F5E")
	Ink     = lipgloss.Color("#0F172A")
	Paper   = lipgloss.Color("#F8FAFC")

	levelColors = []lipgloss.Color{"#38BDF8", "#A78BFA", "#34D399", "#FB923C", "#F472B6", "#FBBF24"}
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func boxed(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
}

// Layout and text
var (
	App       = lipgloss.NewStyle().Padding(1, 2)
	Title     = fg(Accent).Bold(true).MarginBottom(1)
	Subtitle  = fg(Dim).Italic(true)
	MutedText = fg(Dim)
	Success   = fg(Good).Bold(true)
	ErrorMsg  = fg(Bad).Bold(true)
)

// Tree rows
var (
	NodeRoot     = fg(Accent).Bold(true)
	NodeSelected = lipgloss.NewStyle().Background(Accent).Foreground(Ink).Bold(true)
	NodeGrabbed  = lipgloss.NewStyle().Background(Caution).Foreground(Ink).Bold(true)
	NodeMatched  = lipgloss.NewStyle().Underline(true)
	ContentBadge = fg(Good)
	TreeBranch   = fg(Dim)
	SearchMatch  = lipgloss.NewStyle().Background(Caution).Foreground(Ink)

	TreeExpanded  = "▾ "
	TreeCollapsed = "▸ "
	TreeLeaf      = "  "
)

// Panes, inputs and help
var (
	Detail       = boxed(Dim)
	StatusText   = fg(Dim)
	InputLabel   = fg(Good).Bold(true)
	InputField   = boxed(Dim)
	InputFocused = boxed(Accent)

	HelpKey       = fg(Accent).Bold(true)
	HelpDesc      = fg(Dim)
	HelpSeparator = fg(Dim).SetString(" · ")
)

// NodeItemStyle colors a title by depth; the root gets the accent
func NodeItemStyle(level int) lipgloss.Style {
	if level <= 0 {
		return NodeRoot
	}
	return fg(levelColors[(level-1)%len(levelColors)])
}
