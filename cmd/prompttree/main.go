package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"prompttree/internal/adapters/editor"
	"prompttree/internal/adapters/tui"
	"prompttree/internal/bootstrap"
)

func main() {
	dataFlag := flag.String("data", "", "data directory (overrides config)")
	exportFlag := flag.String("export-dir", ".", "directory for exported files")
	flag.Parse()

	ctx := context.Background()
	env, err := bootstrap.Open(ctx, *dataFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	editorOpener := editor.NewOpener(env.Config.Editor)
	app := tui.NewApp(env.Session, env.Catalog, editorOpener, *exportFlag, env.Log)

	p := tea.NewProgram(app, tea.WithAltScreen())

	_, runErr := p.Run()

	// Keep a version of the last state on quit, then write everything once
	if _, err := env.Session.AutoSaveVersion(ctx); err != nil {
		env.Log.Warn("auto-save on quit failed", zap.Error(err))
	}
	if err := env.Session.Flush(ctx); err != nil {
		env.Log.Warn("flush on quit failed", zap.Error(err))
	}

	if runErr != nil {
		env.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
