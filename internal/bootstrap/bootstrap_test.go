package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"prompttree/internal/config"
)

func isolate(t *testing.T, storage string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PROMPTTREE_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("PROMPTTREE_DATA", filepath.Join(dir, "data"))
	t.Setenv("PROMPTTREE_STORAGE", storage)
	t.Setenv("PROMPTTREE_LOG_LEVEL", "")
	t.Setenv("PROMPTTREE_MAX_VERSIONS", "")
	t.Setenv("PROMPTTREE_AUTOSAVE_EVERY", "")
	return dir
}

func TestOpen_PersistsAcrossSessions(t *testing.T) {
	for _, storage := range []string{config.StorageFile, config.StorageSQLite} {
		t.Run(storage, func(t *testing.T) {
			isolate(t, storage)
			ctx := context.Background()

			env, err := Open(ctx, "")
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if env.Session.HasTree() {
				t.Fatal("expected no tree in a fresh data dir")
			}
			if _, err := env.Session.Create(ctx, "Persisted", ""); err != nil {
				t.Fatal(err)
			}
			if err := env.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			env, err = Open(ctx, "")
			if err != nil {
				t.Fatalf("reopen error = %v", err)
			}
			defer env.Close()
			if !env.Session.HasTree() || env.Session.Tree().Title != "Persisted" {
				t.Error("expected the tree to survive a reopen")
			}
		})
	}
}

func TestOpen_DataDirOverride(t *testing.T) {
	dir := isolate(t, config.StorageFile)
	override := filepath.Join(dir, "elsewhere")

	env, err := Open(context.Background(), override)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer env.Close()

	if env.Config.DataDir != override {
		t.Errorf("DataDir = %s, want %s", env.Config.DataDir, override)
	}
	if _, err := os.Stat(override); err != nil {
		t.Errorf("expected data dir to be created: %v", err)
	}
}

func TestOpenStore_Unknown(t *testing.T) {
	cfg := config.Default()
	cfg.Storage = "redis"
	if _, err := OpenStore(cfg); err == nil {
		t.Error("expected an error for an unknown storage")
	}
}
