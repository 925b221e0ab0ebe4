package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"prompttree/internal/application/commands"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in templates",
	Long: `List the built-in templates by category.

Examples:
  prompttree-cli templates
  prompttree-cli templates use "blog post"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, category := range env.Catalog.Categories() {
			fmt.Fprintln(out, category.Name)
			for _, name := range category.Templates {
				info, _ := env.Catalog.Info(name)
				fmt.Fprintf(out, "  %s %-36s %s\n", info.Icon, name, info.Description)
			}
		}
		return nil
	},
}

var templatesUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Replace the working tree with a template",
	Long: `Replace the working tree with a fresh copy of a template. The name may be
abbreviated; the best fuzzy match is used.

Examples:
  prompttree-cli templates use "Marketing Campaign"
  prompttree-cli templates use incident`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := commands.ResolveTemplate(env.Catalog, args[0])
		if err != nil {
			return err
		}
		result, err := commands.NewUseTemplateCommand(GetSession(), env.Catalog, name).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templatesUseCmd)
	rootCmd.AddCommand(templatesCmd)
}
