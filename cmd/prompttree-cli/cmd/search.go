package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prompttree/internal/application/commands"
	"prompttree/internal/domain"
)

var searchIn string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search node titles and content",
	Long: `Case-insensitive substring search over node titles and content.
Results are listed in tree order.

Examples:
  prompttree-cli search tone
  prompttree-cli search "bullet points" --in content`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := domain.ParseSearchScope(searchIn)
		if err != nil {
			return err
		}
		ctx := context.Background()

		results, err := commands.NewSearchCommand(GetSession(), args[0], scope).Execute(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found")
			return nil
		}

		for _, r := range results {
			fmt.Fprintf(out, "[%s] %s %s\n", r.MatchType, r.Node.ID, r.Node.Title)
			if r.Snippet != "" {
				fmt.Fprintf(out, "    %s\n", strings.ReplaceAll(r.Snippet, "\n", " "))
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchIn, "in", "all", "where to search: all, titles or content")

	rootCmd.AddCommand(searchCmd)
}
