package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prompttree/internal/adapters/editor"
	"prompttree/internal/application/commands"
)

var (
	editTitle       string
	editContent     string
	editContentFile string
	editExamples    []string
	editInEditor    bool
)

var editCmd = &cobra.Command{
	Use:   "edit <node-id>",
	Short: "Change a node's title, content or examples",
	Long: `Apply a partial update to a node. Only the given flags change.

Examples:
  prompttree-cli edit 1a2b3c4d --title "Voice"
  prompttree-cli edit 1a2b3c4d --content-file tone.md
  prompttree-cli edit 1a2b3c4d --editor
  prompttree-cli edit 1a2b3c4d -e "first example" -e "second example"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveNode(args[0])
		if err != nil {
			return err
		}
		session := GetSession()
		editCmd := commands.NewEditNodeCommand(session, id)
		flags := cmd.Flags()

		if flags.Changed("title") {
			editCmd.Title = &editTitle
		}
		if flags.Changed("content") {
			editCmd.Content = &editContent
		}
		if flags.Changed("content-file") {
			data, err := os.ReadFile(editContentFile)
			if err != nil {
				return fmt.Errorf("failed to read content file: %w", err)
			}
			content := string(data)
			editCmd.Content = &content
		}
		if flags.Changed("example") {
			editCmd.Examples = &editExamples
		}
		if editInEditor {
			content, err := editContentInEditor(id)
			if err != nil {
				return err
			}
			editCmd.Content = &content
		}

		result, err := editCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func editContentInEditor(id string) (string, error) {
	node := GetSession().Tree().FindNode(id)
	if node == nil {
		return "", fmt.Errorf("node %s not found", id)
	}
	path, err := editor.WriteTempContent(node.Title, node.Content)
	if err != nil {
		return "", err
	}
	if err := editor.NewOpener(env.Config.Editor).OpenFile(path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("editor: %w", err)
	}
	return editor.ReadTempContent(path)
}

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "new content")
	editCmd.Flags().StringVar(&editContentFile, "content-file", "", "read new content from a file")
	editCmd.Flags().StringArrayVarP(&editExamples, "example", "e", nil, "replace examples (repeatable)")
	editCmd.Flags().BoolVar(&editInEditor, "editor", false, "edit content in $EDITOR")
	editCmd.MarkFlagsMutuallyExclusive("content", "content-file", "editor")

	rootCmd.AddCommand(editCmd)
}
