package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"prompttree/internal/application/commands"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Manage saved versions of the tree",
	Long: `Save, list, restore, rename, delete and compare snapshots of the tree.

A version is referenced by its position in the list ("1" or "#1" is the
newest), its full id, or a unique id prefix.`,
}

var versionsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List versions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		list := GetSession().Versions().List()
		if len(list) == 0 {
			fmt.Fprintln(out, "No versions saved")
			return nil
		}
		for i, v := range list {
			fmt.Fprintf(out, "#%-3d %s  %s  %-30s %4d nodes  %s\n",
				i+1, v.ID[:8], v.Timestamp.Local().Format("2006-01-02 15:04"), v.Label, v.NodeCount, v.TreeTitle)
		}
		return nil
	},
}

var versionsSaveCmd = &cobra.Command{
	Use:   "save [label]",
	Short: "Save the working tree as a new version",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := ""
		if len(args) == 1 {
			label = args[0]
		}
		result, err := commands.NewSaveVersionCommand(GetSession(), label).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var versionsRestoreCmd = &cobra.Command{
	Use:   "restore <version>",
	Short: "Replace the working tree with a saved version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRestoreVersionCommand(GetSession(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var versionsRenameCmd = &cobra.Command{
	Use:   "rename <version> <label>",
	Short: "Change a version's label",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRenameVersionCommand(GetSession(), args[0], args[1]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var versionsRmCmd = &cobra.Command{
	Use:     "rm <version>",
	Aliases: []string{"delete"},
	Short:   "Delete a saved version",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteVersionCommand(GetSession(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var versionsDiffCmd = &cobra.Command{
	Use:   "diff <version-a> <version-b>",
	Short: "Compare the node counts of two versions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmp, err := commands.NewCompareVersionsCommand(GetSession(), args[0], args[1]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d nodes) -> %s (%d nodes): %+d nodes\n",
			cmp.A.Label, cmp.A.NodeCount, cmp.B.Label, cmp.B.NodeCount, cmp.NodeCountDiff)
		return nil
	},
}

func init() {
	versionsCmd.AddCommand(versionsListCmd)
	versionsCmd.AddCommand(versionsSaveCmd)
	versionsCmd.AddCommand(versionsRestoreCmd)
	versionsCmd.AddCommand(versionsRenameCmd)
	versionsCmd.AddCommand(versionsRmCmd)
	versionsCmd.AddCommand(versionsDiffCmd)
	rootCmd.AddCommand(versionsCmd)
}
