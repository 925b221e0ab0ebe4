package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(dir, "debug")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("tree loaded")
	logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"tree loaded"`) {
		t.Errorf("expected JSON log line, got %s", data)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(dir, "warn")
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Sync()

	data, _ := os.ReadFile(filepath.Join(dir, FileName))
	if strings.Contains(string(data), "hidden") {
		t.Error("info message should be filtered at warn level")
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(t.TempDir(), "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if NewOrNop(t.TempDir(), "loud") == nil {
		t.Error("NewOrNop must never return nil")
	}
}
