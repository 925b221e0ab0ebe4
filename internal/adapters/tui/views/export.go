package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/adapters/export"
	"prompttree/internal/adapters/launcher"
	"prompttree/internal/adapters/tui/styles"
	"prompttree/internal/application"
)

// ExportKeyMap defines key bindings for the export view
type ExportKeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Copy  key.Binding
	Write key.Binding
	Open  key.Binding
	Back  key.Binding
}

var ExportKeys = ExportKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "l", "right"),
		key.WithHelp("tab", "next format"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "h", "left"),
		key.WithHelp("shift+tab", "prev format"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c", "y"),
		key.WithHelp("c", "copy"),
	),
	Write: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "write file"),
	),
	Open: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "write and open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q", "o"),
		key.WithHelp("esc", "back"),
	),
}

// Swapped in tests
var (
	copyToClipboard = clipboard.WriteAll
	openFile        = launcher.New().Open
)

// exportChrome is the number of rows used around the preview
const exportChrome = 10

// ExportModel previews the tree in each export format and copies or writes it
type ExportModel struct {
	ViewState
	session *application.Session
	dir     string
	format  int
}

// NewExportModel creates an export view that writes files into dir
func NewExportModel(session *application.Session, dir string) *ExportModel {
	return &ExportModel{session: session, dir: dir}
}

// Open resets the status line
func (m *ExportModel) Open() {
	m.ClearMessage()
}

// Init initializes the export view
func (m *ExportModel) Init() tea.Cmd {
	return nil
}

// Format returns the selected export format
func (m *ExportModel) Format() export.Format {
	return export.Formats[m.format]
}

// Update handles messages for the export view
func (m *ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, ExportKeys.Back):
		return m, switchTo(SwitchToBrowserMsg{})

	case key.Matches(keyMsg, ExportKeys.Next):
		m.format = (m.format + 1) % len(export.Formats)
		m.ClearMessage()

	case key.Matches(keyMsg, ExportKeys.Prev):
		m.format = (m.format + len(export.Formats) - 1) % len(export.Formats)
		m.ClearMessage()

	case key.Matches(keyMsg, ExportKeys.Copy):
		out, err := m.render()
		if err == nil {
			err = copyToClipboard(out)
		}
		if err != nil {
			m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
			return m, nil
		}
		m.SetMessage(fmt.Sprintf("Copied %s to clipboard", m.Format()), false)

	case key.Matches(keyMsg, ExportKeys.Write):
		path, err := m.write()
		if err != nil {
			m.SetError(err)
			return m, nil
		}
		m.SetMessage("Wrote "+path, false)

	case key.Matches(keyMsg, ExportKeys.Open):
		path, err := m.write()
		if err == nil {
			err = openFile(path)
		}
		if err != nil {
			m.SetError(err)
			return m, nil
		}
		m.SetMessage("Opened "+path, false)
	}
	return m, nil
}

func (m *ExportModel) render() (string, error) {
	if !m.session.HasTree() {
		return "", application.ErrNoTree
	}
	return export.Render(m.session.Tree(), m.Format())
}

func (m *ExportModel) write() (string, error) {
	out, err := m.render()
	if err != nil {
		return "", err
	}
	path := filepath.Join(m.dir, export.Filename(m.session.Tree(), m.Format()))
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// View renders the export view
func (m *ExportModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Export"))
	b.WriteString("\n")

	var tabs []string
	for i, f := range export.Formats {
		if i == m.format {
			tabs = append(tabs, styles.HelpKey.Render("["+string(f)+"]"))
		} else {
			tabs = append(tabs, styles.HelpDesc.Render(" "+string(f)+" "))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	out, err := m.render()
	if err != nil {
		b.WriteString(RenderMessage(err.Error(), true))
	} else {
		b.WriteString(styles.Detail.Render(m.preview(out)))
	}
	b.WriteString("\n\n")

	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n")
	}
	b.WriteString(RenderHelpLine(ExportKeys.Next, ExportKeys.Copy, ExportKeys.Write, ExportKeys.Open, ExportKeys.Back))

	return styles.App.Render(b.String())
}

// preview clips the rendered output to the available rows and width
func (m *ExportModel) preview(out string) string {
	rows := m.listHeight(exportChrome)
	width := max(m.Width-10, 20)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	var clipped []string
	for i, line := range lines {
		if i == rows {
			clipped = append(clipped, styles.MutedText.Render(fmt.Sprintf("… %d more lines", len(lines)-rows)))
			break
		}
		clipped = append(clipped, Truncate(line, width))
	}
	return strings.Join(clipped, "\n")
}
