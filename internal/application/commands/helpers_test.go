package commands

import (
	"context"
	"strings"
	"testing"

	"prompttree/internal/adapters/filesystem"
	"prompttree/internal/application"
	"prompttree/internal/domain"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// setupTestSession returns a session persisted in a temp dir, holding a tree
// Root -> [A -> [A1], B]
func setupTestSession(t *testing.T) (*application.Session, map[string]string) {
	t.Helper()

	store, err := filesystem.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	session := application.NewSession(application.NewRepository(store), application.SessionOptions{})
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("failed to load session: %v", err)
	}

	ctx := context.Background()
	tree, err := session.Create(ctx, "Test Tree", "")
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}

	ids := map[string]string{"root": tree.RootNode.ID}
	add := func(key, parentKey, title string) {
		n := domain.NewNode(title, "")
		if status, err := session.AddNode(ctx, ids[parentKey], n); err != nil || !status.OK() {
			t.Fatalf("failed to add %s: %v %v", title, status, err)
		}
		ids[key] = n.ID
	}
	add("a", "root", "A")
	add("a1", "a", "A1")
	add("b", "root", "B")

	return session, ids
}

func emptySession(t *testing.T) *application.Session {
	t.Helper()
	store, err := filesystem.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return application.NewSession(application.NewRepository(store), application.SessionOptions{})
}
