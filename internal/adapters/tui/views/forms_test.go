package views

import (
	"os"
	"path/filepath"
	"testing"

	"prompttree/internal/adapters/templates"
	"prompttree/internal/domain"
)

func TestNodeFormModel_Add(t *testing.T) {
	session, ids := setupTestSession(t)
	m := NewNodeFormModel(session)
	m.Open(FormAdd, ids["b"])

	typeText(m, "Tone")
	m.Update(keyPress("enter")) // moves focus to content
	typeText(m, "Be concise")
	m.Update(keyPress("ctrl+s"))

	b := session.Tree().FindNode(ids["b"])
	if len(b.Children) != 1 {
		t.Fatalf("expected 1 child under B, got %d", len(b.Children))
	}
	added := b.Children[0]
	if added.Title != "Tone" || added.Content != "Be concise" {
		t.Errorf("unexpected node %q / %q", added.Title, added.Content)
	}
	if session.Navigator().Selected() != added.ID {
		t.Error("expected the new node selected")
	}
}

func TestNodeFormModel_EditPrefills(t *testing.T) {
	session, ids := setupTestSession(t)
	m := NewNodeFormModel(session)
	m.Open(FormEdit, ids["a"])

	if got := m.title.Value(); got != "A" {
		t.Errorf("title = %q, want A", got)
	}
	if got := m.content.Value(); got != "body of A" {
		t.Errorf("content = %q", got)
	}

	_, cmd := m.Update(keyPress("ctrl+s"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if m.MessageErr {
		t.Errorf("unexpected error %q", m.Message)
	}
	if n := session.Tree().FindNode(ids["a"]); n.Title != "A" || n.Content != "body of A" {
		t.Errorf("node changed: %q / %q", n.Title, n.Content)
	}
}

func TestNodeFormModel_BlankTitleRejected(t *testing.T) {
	session, ids := setupTestSession(t)
	m := NewNodeFormModel(session)
	m.Open(FormAdd, ids["root"])

	_, cmd := m.Update(keyPress("ctrl+s"))
	if cmd != nil {
		t.Error("expected no command on invalid input")
	}
	if !m.MessageErr {
		t.Error("expected a validation error")
	}
	if got := len(session.Tree().RootNode.Children); got != 2 {
		t.Errorf("expected 2 root children, got %d", got)
	}
}

func TestNodeFormModel_Examples(t *testing.T) {
	session, _ := setupTestSession(t)
	m := NewNodeFormModel(session)
	m.examples.SetValue("first\n\n  second  \n")

	got := m.Examples()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("Examples() = %q", got)
	}
}

func TestExportModel_CopyAndWrite(t *testing.T) {
	session, _ := setupTestSession(t)
	dir := t.TempDir()
	m := NewExportModel(session, dir)

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}
	defer func() { copyToClipboard = orig }()

	m.Update(keyPress("c"))
	if !contains(copied, "# Test Tree") {
		t.Errorf("expected markdown on the clipboard, got %q", copied)
	}

	m.Update(keyPress("tab"))
	if m.Format() != "json" {
		t.Fatalf("format = %s, want json", m.Format())
	}

	m.Update(keyPress("w"))
	if m.MessageErr {
		t.Fatalf("write failed: %s", m.Message)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one exported file, got %v (%v)", entries, err)
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !contains(string(data), `"root_node"`) {
		t.Errorf("expected JSON export, got %s", data)
	}
}

func TestExportModel_WriteAndOpen(t *testing.T) {
	session, _ := setupTestSession(t)
	m := NewExportModel(session, t.TempDir())

	var opened string
	orig := openFile
	openFile = func(path string) error {
		opened = path
		return nil
	}
	defer func() { openFile = orig }()

	m.Update(keyPress("p"))
	if m.MessageErr {
		t.Fatalf("open failed: %s", m.Message)
	}
	if filepath.Base(opened) != "test-tree.md" {
		t.Errorf("opened %q, want test-tree.md", opened)
	}
}

func TestExportModel_NoTree(t *testing.T) {
	m := NewExportModel(emptySession(t), t.TempDir())
	m.Update(keyPress("w"))
	if !m.MessageErr {
		t.Error("expected an error without a tree")
	}
}

func TestTemplatesModel_FilterAndUse(t *testing.T) {
	session := emptySession(t)
	m := NewTemplatesModel(session, templates.MustLoad())
	m.Open()

	if got := len(m.Names()); got != 29 {
		t.Fatalf("expected 29 templates, got %d", got)
	}

	typeText(m, "incident")
	names := m.Names()
	if len(names) == 0 || names[0] != "Cybersecurity Incident Response" {
		t.Fatalf("unexpected ranking %q", names)
	}

	_, cmd := m.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(TreeReplacedMsg)
	if !ok {
		t.Fatal("expected TreeReplacedMsg")
	}
	if msg.Tree.Title != "Incident Response Plan" || !session.HasTree() {
		t.Errorf("unexpected tree %q", msg.Tree.Title)
	}
}

func TestTemplatesModel_ConfirmsReplace(t *testing.T) {
	session, _ := setupTestSession(t)
	m := NewTemplatesModel(session, templates.MustLoad())
	m.Open()

	m.Update(keyPress("enter"))
	if !m.confirming {
		t.Fatal("expected a confirmation prompt when a tree exists")
	}
	m.Update(keyPress("n"))
	if session.Tree().Title != "Test Tree" {
		t.Error("tree replaced despite cancel")
	}
}

func TestVersionsModel_SaveAndCompare(t *testing.T) {
	session, ids := setupTestSession(t)
	m := NewVersionsModel(session)
	m.Open()

	m.Update(keyPress("s"))
	typeText(m, "before")
	m.Update(keyPress("enter"))
	if session.Versions().Len() != 1 {
		t.Fatalf("expected 1 version, got %d", session.Versions().Len())
	}

	if _, err := session.AddNode(t.Context(), ids["b"], domain.NewNode("B1", "")); err != nil {
		t.Fatal(err)
	}
	m.Update(keyPress("s"))
	typeText(m, "after")
	m.Update(keyPress("enter"))

	// Newest first: mark "after", then "before"
	m.Update(keyPress(" "))
	m.Update(keyPress("j"))
	m.Update(keyPress(" "))
	m.Update(keyPress("c"))

	if !contains(m.comparison, "after (5 nodes)") || !contains(m.comparison, "-1 nodes") {
		t.Errorf("comparison = %q", m.comparison)
	}
}

func TestFormatComparison(t *testing.T) {
	cmp := domain.Comparison{
		A:             domain.VersionSummary{Label: "v1", NodeCount: 3},
		B:             domain.VersionSummary{Label: "v2", NodeCount: 5},
		NodeCountDiff: 2,
	}
	if got := FormatComparison(cmp); got != "v1 (3 nodes) → v2 (5 nodes): +2 nodes" {
		t.Errorf("got %q", got)
	}
}

func TestOnboardingModel_CreateTree(t *testing.T) {
	session := emptySession(t)
	m := NewOnboardingModel(session)
	m.Open()

	m.Update(keyPress("n"))
	if !m.Creating() {
		t.Fatal("expected the title form")
	}
	typeText(m, "Essay")
	_, cmd := m.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(TreeReplacedMsg); !ok {
		t.Fatal("expected TreeReplacedMsg")
	}
	if !session.HasTree() || session.Tree().Title != "Essay" {
		t.Errorf("expected tree Essay")
	}
}

func TestOnboardingModel_Templates(t *testing.T) {
	m := NewOnboardingModel(emptySession(t))
	_, cmd := m.Update(keyPress("t"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(SwitchToTemplatesMsg); !ok {
		t.Error("expected SwitchToTemplatesMsg")
	}
}
