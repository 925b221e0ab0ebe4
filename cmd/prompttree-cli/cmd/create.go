package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"prompttree/internal/application/commands"
)

var (
	newDescription string
	addContent     string
	addExamples    []string
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Start a new empty tree",
	Long: `Replace the working tree with a new tree holding only a root node.
Saved versions are kept.

Examples:
  prompttree-cli new "Blog post writer"
  prompttree-cli new "Support bot" --description "Tier one answers"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewCreateTreeCommand(GetSession(), args[0], newDescription).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <parent-id> <title>",
	Short: "Add a child node",
	Long: `Append a new node as the last child of a parent.

Examples:
  prompttree-cli add root "Tone" --content "Friendly and concise"
  prompttree-cli add 1a2b3c4d "Format" -e "Use bullet points" -e "Max 200 words"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parentID, err := resolveNode(args[0])
		if err != nil {
			return err
		}
		ctx := context.Background()

		addCmd := commands.NewAddNodeCommand(GetSession(), parentID, args[1], addContent, addExamples)
		result, err := addCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newDescription, "description", "", "tree description")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "node content")
	addCmd.Flags().StringArrayVarP(&addExamples, "example", "e", nil, "example (repeatable)")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(addCmd)
}
