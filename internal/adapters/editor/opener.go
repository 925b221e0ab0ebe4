package editor

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"prompttree/internal/ports"
)

var _ ports.EditorOpener = (*Opener)(nil)

// Opener implements ports.EditorOpener
type Opener struct {
	preferred string
}

// NewOpener creates an opener. A non-empty preferred command wins over
// $VISUAL and $EDITOR and may carry arguments, e.g. "code --wait".
func NewOpener(preferred string) *Opener {
	return &Opener{preferred: preferred}
}

// OpenFile opens a file in the user's preferred editor and waits for it
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv := strings.Fields(o.findEditor())
	if len(argv) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR or the editor config option")
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

func (o *Opener) findEditor() string {
	for _, candidate := range []string{o.preferred, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// WriteTempContent stores node content in a temporary markdown file named
// after the node title and returns its path
func WriteTempContent(title, content string) (string, error) {
	slug := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "node"
	}
	if len(slug) > 40 {
		slug = slug[:40]
	}

	f, err := os.CreateTemp("", "prompttree-"+slug+"-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return f.Name(), nil
}

// ReadTempContent returns the edited content and removes the file. A single
// trailing newline added by the editor is dropped.
func ReadTempContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %w", err)
	}
	content := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(content, "\r"), nil
}
