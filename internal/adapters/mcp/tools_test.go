package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"prompttree/internal/adapters/filesystem"
	"prompttree/internal/adapters/templates"
	"prompttree/internal/application"
	"prompttree/internal/domain"
)

func newTestBackend(t *testing.T) (*Backend, *application.Session) {
	t.Helper()
	store, err := filesystem.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	session := application.NewSession(application.NewRepository(store), application.SessionOptions{})
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return NewBackend(session, templates.MustLoad(), nil), session
}

func call(t *testing.T, b *Backend, fn sessionHandler, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := b.handle("test", fn)(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text, result.IsError
}

func TestToolsWithoutTree(t *testing.T) {
	b, _ := newTestBackend(t)

	tests := []struct {
		name string
		fn   sessionHandler
		args map[string]any
	}{
		{name: "tree", fn: treeHandler},
		{name: "export", fn: exportHandler},
		{name: "add_node", fn: addNodeHandler, args: map[string]any{"title": "A"}},
		{name: "save_version", fn: saveVersionHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, b, tt.fn, tt.args)
			if !isErr {
				t.Errorf("expected tool error, got %q", text)
			}
		})
	}
}

func TestTemplateThenEdit(t *testing.T) {
	b, session := newTestBackend(t)

	text, isErr := call(t, b, b.useTemplateHandler, map[string]any{"name": "Blank"})
	if isErr {
		t.Fatalf("use_template failed: %s", text)
	}
	rootID := session.Tree().RootNode.ID

	text, isErr = call(t, b, addNodeHandler, map[string]any{
		"title":    "Persona",
		"content":  "You are a careful reviewer",
		"examples": []any{"be terse"},
	})
	if isErr {
		t.Fatalf("add_node failed: %s", text)
	}
	persona := session.Tree().RootNode.Children[0]
	if persona.Title != "Persona" || len(persona.Examples) != 1 {
		t.Fatalf("unexpected node: %+v", persona)
	}

	text, isErr = call(t, b, addNodeHandler, map[string]any{"parent_id": rootID, "title": "Rules"})
	if isErr {
		t.Fatalf("add_node failed: %s", text)
	}

	text, isErr = call(t, b, updateNodeHandler, map[string]any{"id": persona.ID, "content": "updated"})
	if isErr {
		t.Fatalf("update_node failed: %s", text)
	}
	got := session.Tree().FindNode(persona.ID)
	if got.Content != "updated" || got.Title != "Persona" {
		t.Errorf("partial update changed the wrong fields: %+v", got)
	}

	text, isErr = call(t, b, reorderHandler, map[string]any{"parent_id": rootID, "from": float64(1), "to": float64(0)})
	if isErr {
		t.Fatalf("reorder_children failed: %s", text)
	}
	if session.Tree().RootNode.Children[0].Title != "Rules" {
		t.Errorf("expected Rules first after reorder")
	}

	text, _ = call(t, b, treeHandler, nil)
	if !contains(text, "Persona") || !contains(text, "Rules") {
		t.Errorf("tree output missing nodes: %s", text)
	}

	text, _ = call(t, b, searchHandler, map[string]any{"query": "careful", "scope": "titles"})
	if text != "No results found." {
		t.Errorf("title-only search should not match content: %s", text)
	}

	text, _ = call(t, b, getNodeHandler, map[string]any{"id": persona.ID})
	if !contains(text, "updated") || !contains(text, "be terse") {
		t.Errorf("get_node output incomplete: %s", text)
	}
}

func TestMoveAndDelete(t *testing.T) {
	b, session := newTestBackend(t)
	ctx := context.Background()
	tree, _ := session.Create(ctx, "T", "")
	a := domain.NewNode("A", "")
	c := domain.NewNode("C", "")
	session.AddNode(ctx, tree.RootNode.ID, a)
	session.AddNode(ctx, a.ID, c)

	text, isErr := call(t, b, moveNodeHandler, map[string]any{"id": a.ID, "parent_id": c.ID})
	if !isErr || !contains(text, "inside") {
		t.Errorf("expected cycle rejection, got %q", text)
	}

	text, isErr = call(t, b, moveNodeHandler, map[string]any{"id": c.ID, "parent_id": tree.RootNode.ID})
	if isErr {
		t.Fatalf("move_node failed: %s", text)
	}

	text, isErr = call(t, b, deleteNodeHandler, map[string]any{"id": tree.RootNode.ID})
	if !isErr {
		t.Errorf("expected root delete to fail, got %q", text)
	}

	text, isErr = call(t, b, deleteNodeHandler, map[string]any{"id": a.ID})
	if isErr {
		t.Fatalf("delete_node failed: %s", text)
	}

	text, _ = call(t, b, statsHandler, nil)
	if !contains(text, "nodes: 2") {
		t.Errorf("unexpected stats: %s", text)
	}
}

func TestVersionTools(t *testing.T) {
	b, session := newTestBackend(t)
	ctx := context.Background()
	tree, _ := session.Create(ctx, "T", "")

	text, isErr := call(t, b, saveVersionHandler, map[string]any{"label": "baseline"})
	if isErr {
		t.Fatalf("save_version failed: %s", text)
	}

	session.AddNode(ctx, tree.RootNode.ID, domain.NewNode("Extra", ""))

	text, _ = call(t, b, versionsHandler, nil)
	if !contains(text, "#1") || !contains(text, "baseline") {
		t.Errorf("unexpected versions listing: %s", text)
	}

	text, isErr = call(t, b, restoreVersionHandler, map[string]any{"ref": "#1"})
	if isErr {
		t.Fatalf("restore_version failed: %s", text)
	}
	if n := session.Stats().Nodes; n != 1 {
		t.Errorf("expected 1 node after restore, got %d", n)
	}

	text, _ = call(t, b, exportHandler, map[string]any{"format": "json"})
	if !contains(text, `"root_node"`) {
		t.Errorf("expected json export, got %s", text)
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
