package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prompttree/internal/application"
	"prompttree/internal/application/commands"
	"prompttree/internal/domain"
)

var showIDs bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the tree structure",
	Long: `Display the working tree as an indented outline.

Examples:
  prompttree-cli show
  prompttree-cli show --ids`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session := GetSession()
		if !session.HasTree() {
			return application.ErrNoTree
		}
		out := cmd.OutOrStdout()
		tree := session.Tree()

		fmt.Fprintln(out, tree.Title)
		if tree.Description != "" {
			fmt.Fprintln(out, tree.Description)
		}
		if !showIDs {
			fmt.Fprint(out, domain.AsciiTree(tree.RootNode))
			return nil
		}
		for _, fn := range domain.AllNodes(tree.RootNode) {
			marker := ""
			if strings.TrimSpace(fn.Node.Content) != "" {
				marker = " *"
			}
			fmt.Fprintf(out, "%s%s %s%s\n", strings.Repeat("  ", fn.Level), fn.Node.ID, fn.Node.Title, marker)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show node, content and depth counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := GetSession()
		if !session.HasTree() {
			return application.ErrNoTree
		}
		st := session.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "nodes:        %d\n", st.Nodes)
		fmt.Fprintf(out, "with content: %d\n", st.NodesWithContent)
		fmt.Fprintf(out, "depth:        %d\n", st.Depth)
		fmt.Fprintf(out, "versions:     %d\n", session.Versions().Len())
		return nil
	},
}

var (
	metaTitle       string
	metaDescription string
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Change the tree title or description",
	Long: `Change the working tree's title and/or description.

Examples:
  prompttree-cli meta --title "Release notes"
  prompttree-cli meta --description ""`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session := GetSession()
		if !session.HasTree() {
			return application.ErrNoTree
		}
		title := session.Tree().Title
		if cmd.Flags().Changed("title") {
			title = metaTitle
		}
		var description *string
		if cmd.Flags().Changed("description") {
			description = &metaDescription
		}

		result, err := commands.NewUpdateMetadataCommand(session, title, description).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showIDs, "ids", false, "print node ids; * marks nodes with content")
	metaCmd.Flags().StringVar(&metaTitle, "title", "", "new title")
	metaCmd.Flags().StringVar(&metaDescription, "description", "", "new description")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(metaCmd)
}
