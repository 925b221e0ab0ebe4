package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"prompttree/internal/application/commands"
)

var rmCmd = &cobra.Command{
	Use:     "rm <node-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a node and its subtree",
	Long: `Delete a node together with all of its descendants.
The root node cannot be deleted. Save a version first if you may want it back.

Examples:
  prompttree-cli rm 1a2b3c4d`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveNode(args[0])
		if err != nil {
			return err
		}
		result, err := commands.NewDeleteCommand(GetSession(), id).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var clearVersions bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the working tree",
	Long: `Remove the working tree. Saved versions are kept unless --versions is given.

Examples:
  prompttree-cli clear
  prompttree-cli clear --versions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		session := GetSession()
		if clearVersions {
			if err := session.ClearAll(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared tree and versions")
			return nil
		}
		if err := session.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared tree")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearVersions, "versions", false, "also delete every saved version")

	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(clearCmd)
}
