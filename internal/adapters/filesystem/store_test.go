package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"prompttree/internal/ports"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, err := s.Get(ctx, "prompt-factory-tree"); !errors.Is(err, ports.ErrBlobNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrBlobNotFound", err)
	}

	if err := s.Put(ctx, "prompt-factory-tree", []byte(`{"id":"t"}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "prompt-factory-tree.json")); err != nil {
		t.Errorf("expected blob file on disk: %v", err)
	}

	got, err := s.Get(ctx, "prompt-factory-tree")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"id":"t"}` {
		t.Errorf("Get() = %s", got)
	}

	if err := s.Delete(ctx, "prompt-factory-tree"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "prompt-factory-tree"); !errors.Is(err, ports.ErrBlobNotFound) {
		t.Errorf("Get() after Delete error = %v", err)
	}
}

func TestStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := NewStore(dir)

	for i := 0; i < 3; i++ {
		if err := s.Put(ctx, "k", []byte("v")); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "k.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only k.json, got %v", names)
	}
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	s, _ := NewStore(t.TempDir())

	tests := []string{"", "../escape", "a/b", "with space"}
	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			if err := s.Put(context.Background(), key, []byte("x")); err == nil {
				t.Errorf("Put(%q) expected error", key)
			}
		})
	}
}

func TestStorePutBatch(t *testing.T) {
	ctx := context.Background()
	s, _ := NewStore(t.TempDir())
	s.Put(ctx, "gone", []byte("x"))

	err := s.PutBatch(ctx, map[string][]byte{"a": []byte("1"), "gone": nil})
	if err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}
	if got, _ := s.Get(ctx, "a"); string(got) != "1" {
		t.Errorf("Get(a) = %q", got)
	}
	if _, err := s.Get(ctx, "gone"); !errors.Is(err, ports.ErrBlobNotFound) {
		t.Errorf("nil entry should delete, got %v", err)
	}
}
