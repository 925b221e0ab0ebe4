package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PROMPTTREE_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("PROMPTTREE_DATA", filepath.Join(dir, "data"))
	t.Setenv("PROMPTTREE_STORAGE", "file")
	t.Setenv("PROMPTTREE_MAX_VERSIONS", "")
	t.Setenv("PROMPTTREE_AUTOSAVE_EVERY", "0")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestCLI_EditingFlow(t *testing.T) {
	dir := isolate(t)

	if out := mustRun(t, "new", "Essay"); !contains(out, `Created tree "Essay"`) {
		t.Fatalf("new: %s", out)
	}

	out := mustRun(t, "add", "root", "Intro", "--content", "Hook the reader")
	fields := strings.Fields(out)
	if len(fields) < 3 || fields[0] != "Added" {
		t.Fatalf("add: %s", out)
	}
	introID := fields[1]

	mustRun(t, "add", "root", "Body", "--content", "")

	if out := mustRun(t, "show"); !contains(out, "├── Intro") || !contains(out, "└── Body") {
		t.Errorf("show:\n%s", out)
	}
	if out := mustRun(t, "search", "hook", "--in", "content"); !contains(out, introID) {
		t.Errorf("search: %s", out)
	}
	if out := mustRun(t, "stats"); !contains(out, "nodes:        3") {
		t.Errorf("stats:\n%s", out)
	}

	mustRun(t, "reorder", "root", "1", "0")
	if out := mustRun(t, "show"); !contains(out, "├── Body") {
		t.Errorf("reorder not applied:\n%s", out)
	}

	mustRun(t, "versions", "save", "draft")
	if out := mustRun(t, "versions", "list"); !contains(out, "draft") {
		t.Errorf("versions list: %s", out)
	}

	mustRun(t, "rm", introID)
	if out := mustRun(t, "show"); contains(out, "Intro") {
		t.Errorf("expected Intro deleted:\n%s", out)
	}

	if out := mustRun(t, "versions", "restore", "1"); !contains(out, `Restored "draft"`) {
		t.Errorf("restore: %s", out)
	}
	if out := mustRun(t, "show"); !contains(out, "Intro") {
		t.Errorf("expected Intro restored:\n%s", out)
	}

	mustRun(t, "export", "--format", "json", "--out", "essay.json")
	data, err := os.ReadFile(filepath.Join(dir, "essay.json"))
	if err != nil {
		t.Fatalf("export file: %v", err)
	}
	if !contains(string(data), `"title": "Essay"`) {
		t.Errorf("unexpected export:\n%s", data)
	}

	mustRun(t, "clear")
	if _, err := run(t, "show"); err == nil {
		t.Error("expected an error after clear")
	}
	if out := mustRun(t, "import", "essay.json"); !contains(out, `Imported "Essay" (3 nodes)`) {
		t.Errorf("import: %s", out)
	}
}

func TestCLI_Errors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"show without tree", []string{"show"}, "no tree"},
		{"bad search scope", []string{"search", "x", "--in", "everywhere"}, "unknown search scope"},
		{"unknown version", []string{"versions", "restore", "9"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !contains(strings.ToLower(err.Error()), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}

	mustRun(t, "new", "Plan")
	if _, err := run(t, "rm", "root"); err == nil || !contains(err.Error(), "root node cannot be deleted") {
		t.Errorf("rm root: %v", err)
	}
}

func TestCLI_Templates(t *testing.T) {
	isolate(t)

	if out := mustRun(t, "templates"); !contains(out, "Cybersecurity Incident Response") {
		t.Errorf("templates list missing entries:\n%s", out)
	}
	if out := mustRun(t, "templates", "use", "incident"); !contains(out, "Incident Response Plan") {
		t.Errorf("templates use: %s", out)
	}
	if out := mustRun(t, "show"); !contains(out, "Preparation") {
		t.Errorf("show after template:\n%s", out)
	}
}

func TestCLI_ClearVersions(t *testing.T) {
	isolate(t)
	t.Cleanup(func() { clearVersions = false })

	mustRun(t, "new", "Scratch")
	mustRun(t, "versions", "save", "keep me")

	mustRun(t, "clear")
	if out := mustRun(t, "versions", "list"); !contains(out, "keep me") {
		t.Errorf("plain clear should keep versions:\n%s", out)
	}

	mustRun(t, "new", "Scratch")
	if out := mustRun(t, "clear", "--versions"); !contains(out, "Cleared tree and versions") {
		t.Errorf("clear --versions: %s", out)
	}
	if out := mustRun(t, "versions", "list"); !contains(out, "No versions saved") {
		t.Errorf("expected no versions:\n%s", out)
	}
	if _, err := run(t, "show"); err == nil {
		t.Error("expected no tree after clear --versions")
	}
}
