package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"prompttree/internal/adapters/editor"
	"prompttree/internal/adapters/tui/views"
	"prompttree/internal/application"
	"prompttree/internal/application/commands"
	"prompttree/internal/domain"
	"prompttree/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewOnboarding ViewState = iota
	ViewBrowser
	ViewForm
	ViewSearch
	ViewDelete
	ViewVersions
	ViewExport
	ViewTemplates
	ViewHelp
)

// App is the main TUI application model
type App struct {
	session *application.Session
	editor  ports.EditorOpener
	log     *zap.Logger
	search  *domain.SearchSession

	state      ViewState
	onboarding *views.OnboardingModel
	browser    *views.BrowserModel
	form       *views.NodeFormModel
	find       *views.SearchModel
	remove     *views.DeleteModel
	versions   *views.VersionsModel
	export     *views.ExportModel
	templates  *views.TemplatesModel
	help       *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. Exports are written into exportDir.
func NewApp(session *application.Session, catalog ports.TemplateCatalog, ed ports.EditorOpener, exportDir string, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	search := domain.NewSearchSession()
	a := &App{
		session:    session,
		editor:     ed,
		log:        log,
		search:     search,
		state:      ViewBrowser,
		onboarding: views.NewOnboardingModel(session),
		browser:    views.NewBrowserModel(session, search),
		form:       views.NewNodeFormModel(session),
		find:       views.NewSearchModel(session, search),
		remove:     views.NewDeleteModel(session),
		versions:   views.NewVersionsModel(session),
		export:     views.NewExportModel(session, exportDir),
		templates:  views.NewTemplatesModel(session, catalog),
		help:       views.NewHelpModel(),
	}
	if !session.HasTree() {
		a.state = ViewOnboarding
	}
	return a
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.onboarding.SetSize(msg.Width, msg.Height)
		a.browser.SetSize(msg.Width, msg.Height)
		a.form.SetSize(msg.Width, msg.Height)
		a.find.SetSize(msg.Width, msg.Height)
		a.remove.SetSize(msg.Width, msg.Height)
		a.versions.SetSize(msg.Width, msg.Height)
		a.export.SetSize(msg.Width, msg.Height)
		a.templates.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToBrowserMsg:
		if !a.session.HasTree() {
			a.state = ViewOnboarding
			a.onboarding.Open()
			return a, nil
		}
		a.state = ViewBrowser
		return a, nil

	case views.SwitchToOnboardingMsg:
		a.state = ViewOnboarding
		a.onboarding.Open()
		return a, nil

	case views.SwitchToFormMsg:
		a.state = ViewForm
		a.form.Open(msg.Mode, msg.NodeID)
		return a, a.form.Init()

	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		return a, a.find.Open()

	case views.SwitchToDeleteMsg:
		node := a.session.Tree().FindNode(msg.NodeID)
		if node == nil {
			return a, nil
		}
		a.state = ViewDelete
		a.remove.SetTarget(node)
		return a, nil

	case views.SwitchToVersionsMsg:
		a.state = ViewVersions
		a.versions.Open()
		return a, nil

	case views.SwitchToExportMsg:
		a.state = ViewExport
		a.export.Open()
		return a, nil

	case views.SwitchToTemplatesMsg:
		a.state = ViewTemplates
		return a, a.templates.Open()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	// Results reported by the sub-views always land in the browser
	case views.StatusMsg, views.RevealMsg:
		_, cmd := a.browser.Update(msg)
		return a, cmd

	case views.TreeReplacedMsg:
		a.search.Reset()
		a.state = ViewBrowser
		a.log.Info("tree replaced", zap.String("title", msg.Tree.Title))
		_, cmd := a.browser.Update(views.StatusMsg{Text: msg.Message})
		return a, cmd

	case views.OpenEditorMsg:
		a.state = ViewBrowser
		return a, a.openEditor(msg.NodeID)

	case editorFinishedMsg:
		_, cmd := a.browser.Update(a.applyEditor(msg))
		return a, cmd
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewOnboarding:
		_, cmd = a.onboarding.Update(msg)
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewForm:
		_, cmd = a.form.Update(msg)
	case ViewSearch:
		_, cmd = a.find.Update(msg)
	case ViewDelete:
		_, cmd = a.remove.Update(msg)
	case ViewVersions:
		_, cmd = a.versions.Update(msg)
	case ViewExport:
		_, cmd = a.export.Update(msg)
	case ViewTemplates:
		_, cmd = a.templates.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct {
	nodeID string
	path   string
	err    error
}

// openEditor writes the node's content to a temp file and suspends the TUI
// while the editor runs
func (a *App) openEditor(nodeID string) tea.Cmd {
	fail := func(err error) tea.Cmd {
		return func() tea.Msg { return editorFinishedMsg{nodeID: nodeID, err: err} }
	}
	if a.editor == nil {
		return fail(fmt.Errorf("no editor configured"))
	}
	node := a.session.Tree().FindNode(nodeID)
	if node == nil {
		return fail(fmt.Errorf("node %s not found", nodeID))
	}

	path, err := editor.WriteTempContent(node.Title, node.Content)
	if err != nil {
		return fail(err)
	}
	cmd, err := a.editor.Command(path)
	if err != nil {
		return fail(err)
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{nodeID: nodeID, path: path, err: err}
	})
}

// applyEditor reads the edited file back into the node's content
func (a *App) applyEditor(msg editorFinishedMsg) views.StatusMsg {
	if msg.err != nil {
		a.log.Warn("editor failed", zap.String("node", msg.nodeID), zap.Error(msg.err))
		return views.StatusMsg{Text: "Editor: " + msg.err.Error(), Err: true}
	}

	content, err := editor.ReadTempContent(msg.path)
	if err != nil {
		return views.StatusMsg{Text: err.Error(), Err: true}
	}
	node := a.session.Tree().FindNode(msg.nodeID)
	if node == nil {
		return views.StatusMsg{Text: fmt.Sprintf("node %s no longer exists", msg.nodeID), Err: true}
	}
	if content == node.Content {
		return views.StatusMsg{Text: "No changes"}
	}

	cmd := commands.NewEditNodeCommand(a.session, msg.nodeID)
	cmd.Content = &content
	result, err := cmd.Execute(context.Background())
	if err != nil {
		return views.StatusMsg{Text: err.Error(), Err: true}
	}
	return views.StatusMsg{Text: result.Message}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewOnboarding:
		return a.onboarding.View()
	case ViewForm:
		return a.form.View()
	case ViewSearch:
		return a.find.View()
	case ViewDelete:
		return a.remove.View()
	case ViewVersions:
		return a.versions.View()
	case ViewExport:
		return a.export.View()
	case ViewTemplates:
		return a.templates.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
