package launcher

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Launcher opens files with the desktop's default application
type Launcher struct {
	goos string
}

// New creates a launcher for the running operating system
func New() *Launcher {
	return &Launcher{goos: runtime.GOOS}
}

// Open hands path to the default application without waiting for it
func (l *Launcher) Open(path string) error {
	uri, err := FileURI(path)
	if err != nil {
		return err
	}
	cmd, err := l.Command(uri)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	go cmd.Wait()
	return nil
}

// FileURI builds the file:// URI for path, resolved against the working
// directory when relative
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// Command returns the platform command that opens uri
func (l *Launcher) Command(uri string) (*exec.Cmd, error) {
	switch l.goos {
	case "darwin":
		return exec.Command("open", uri), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", uri), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", uri), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", l.goos)
	}
}
