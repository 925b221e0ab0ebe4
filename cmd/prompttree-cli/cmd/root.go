package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"prompttree/internal/application"
	"prompttree/internal/bootstrap"
)

var (
	dataDir string
	env     *bootstrap.Env
)

var rootCmd = &cobra.Command{
	Use:   "prompttree-cli",
	Short: "CLI for editing prompt trees",
	Long: `prompttree-cli edits the same prompt tree and version history as the
prompttree TUI and the prompttree-mcp server.

Nodes are addressed by their 8 character id, as printed by "show --ids",
or by the word "root".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		// A failed previous run skips PersistentPostRunE
		if env != nil {
			env.Close()
		}
		var err error
		env, err = bootstrap.Open(context.Background(), dataDir)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env == nil {
			return nil
		}
		err := env.Close()
		env = nil
		return err
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "", "data directory (overrides config)")
}

// GetSession returns the initialized session
func GetSession() *application.Session {
	return env.Session
}

// resolveNode maps "root" to the root node id and checks that a tree exists
func resolveNode(ref string) (string, error) {
	session := GetSession()
	if !session.HasTree() {
		return "", application.ErrNoTree
	}
	if strings.EqualFold(ref, "root") {
		return session.Tree().RootNode.ID, nil
	}
	return ref, nil
}
