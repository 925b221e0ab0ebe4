package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"prompttree/internal/adapters/editor"
	"prompttree/internal/adapters/filesystem"
	"prompttree/internal/adapters/templates"
	"prompttree/internal/adapters/tui/views"
	"prompttree/internal/application"
)

func newTestApp(t *testing.T, withTree bool) (*App, *application.Session) {
	t.Helper()
	store, err := filesystem.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	session := application.NewSession(application.NewRepository(store), application.SessionOptions{})
	if withTree {
		if _, err := session.Create(context.Background(), "Plan", ""); err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
	}
	return NewApp(session, templates.MustLoad(), editor.NewOpener("true"), t.TempDir(), nil), session
}

func TestApp_StartsInOnboardingWithoutTree(t *testing.T) {
	app, _ := newTestApp(t, false)
	if app.State() != ViewOnboarding {
		t.Fatalf("state = %d, want onboarding", app.State())
	}

	// Back from templates with no tree returns to onboarding
	app.Update(views.SwitchToTemplatesMsg{})
	if app.State() != ViewTemplates {
		t.Fatalf("state = %d, want templates", app.State())
	}
	app.Update(views.SwitchToBrowserMsg{})
	if app.State() != ViewOnboarding {
		t.Errorf("state = %d, want onboarding", app.State())
	}
}

func TestApp_TreeReplacedShowsBrowser(t *testing.T) {
	app, session := newTestApp(t, false)
	tree, err := session.Create(context.Background(), "New", "")
	if err != nil {
		t.Fatal(err)
	}

	app.Update(views.TreeReplacedMsg{Tree: tree, Message: "Created tree"})
	if app.State() != ViewBrowser {
		t.Errorf("state = %d, want browser", app.State())
	}
}

func TestApp_Routing(t *testing.T) {
	app, session := newTestApp(t, true)
	root := session.Tree().RootNode.ID

	tests := []struct {
		name string
		msg  tea.Msg
		want ViewState
	}{
		{"form", views.SwitchToFormMsg{Mode: views.FormAdd, NodeID: root}, ViewForm},
		{"search", views.SwitchToSearchMsg{}, ViewSearch},
		{"versions", views.SwitchToVersionsMsg{}, ViewVersions},
		{"export", views.SwitchToExportMsg{}, ViewExport},
		{"help", views.SwitchToHelpMsg{}, ViewHelp},
		{"delete unknown node", views.SwitchToDeleteMsg{NodeID: "missing"}, ViewHelp},
		{"browser", views.SwitchToBrowserMsg{}, ViewBrowser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.Update(tt.msg)
			if app.State() != tt.want {
				t.Errorf("state = %d, want %d", app.State(), tt.want)
			}
		})
	}
}

func TestApp_EditorResult(t *testing.T) {
	app, session := newTestApp(t, true)
	root := session.Tree().RootNode

	path, err := editor.WriteTempContent(root.Title, "edited outside")
	if err != nil {
		t.Fatal(err)
	}
	app.Update(editorFinishedMsg{nodeID: root.ID, path: path})

	if got := session.Tree().RootNode.Content; got != "edited outside" {
		t.Errorf("content = %q", got)
	}
}
