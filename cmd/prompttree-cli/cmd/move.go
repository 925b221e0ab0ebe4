package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"prompttree/internal/application/commands"
)

var mvIndex int

var mvCmd = &cobra.Command{
	Use:   "mv <node-id> <new-parent-id>",
	Short: "Move a node under a new parent",
	Long: `Move a node and its subtree under another node.

Rules:
- The root node cannot be moved
- A node cannot be moved into itself or its own descendants

Examples:
  prompttree-cli mv 1a2b3c4d root              # append under the root
  prompttree-cli mv 1a2b3c4d 9f8e7d6c --index 0 # first child`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := resolveNode(args[0])
		if err != nil {
			return err
		}
		dest, err := resolveNode(args[1])
		if err != nil {
			return err
		}

		result, err := commands.NewMoveNodeCommand(GetSession(), source, dest, mvIndex).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var reorderCmd = &cobra.Command{
	Use:   "reorder <parent-id> <from> <to>",
	Short: "Move a child to another position among its siblings",
	Long: `Move the child at position <from> to position <to>. Positions start at 0;
a <to> past the end moves the child last.

Examples:
  prompttree-cli reorder root 2 0`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, err := resolveNode(args[0])
		if err != nil {
			return err
		}
		from, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid from position %q", args[1])
		}
		to, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid to position %q", args[2])
		}

		result, err := commands.NewReorderCommand(GetSession(), parent, from, to).Execute(context.Background())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)
		fmt.Fprintln(out, strings.Join(result.Order, ", "))
		return nil
	},
}

func init() {
	mvCmd.Flags().IntVar(&mvIndex, "index", -1, "position among the new parent's children (default: last)")

	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(reorderCmd)
}
