package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"prompttree/internal/adapters/export"
	"prompttree/internal/adapters/launcher"
	"prompttree/internal/application"
	"prompttree/internal/application/commands"
)

var (
	exportFormat string
	exportOut    string
	exportCopy   bool
	exportOpen   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the tree as Markdown, JSON or an ASCII outline",
	Long: `Render the working tree. Output goes to stdout unless --out or --copy is given.
Pass --out with an empty value to use a name derived from the tree title.

Examples:
  prompttree-cli export
  prompttree-cli export --format json --out prompt.json
  prompttree-cli export --copy
  prompttree-cli export --format markdown --open`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		session := GetSession()
		if !session.HasTree() {
			return application.ErrNoTree
		}
		rendered, err := export.Render(session.Tree(), format)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case exportCopy:
			if err := clipboard.WriteAll(rendered); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			fmt.Fprintf(out, "Copied %s to clipboard\n", format)
		case cmd.Flags().Changed("out") || exportOpen:
			path := exportOut
			if path == "" {
				path = export.Filename(session.Tree(), format)
			}
			if err := os.WriteFile(path, []byte(rendered), 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintf(out, "Wrote %s\n", path)
			if exportOpen {
				if err := launcher.New().Open(path); err != nil {
					return err
				}
			}
		default:
			fmt.Fprint(out, rendered)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the working tree with a JSON export",
	Long: `Validate a JSON tree (as written by "export --format json") and make it
the working tree. An invalid file leaves the current tree untouched.

Examples:
  prompttree-cli import prompt.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		result, err := commands.NewImportCommand(GetSession(), data).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "markdown, json or ascii")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "copy to the clipboard")
	exportCmd.Flags().BoolVar(&exportOpen, "open", false, "write the file and open it with the default application")
	exportCmd.MarkFlagsMutuallyExclusive("out", "copy")
	exportCmd.MarkFlagsMutuallyExclusive("open", "copy")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
