package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"prompttree/internal/adapters/export"
	"prompttree/internal/application"
	"prompttree/internal/application/commands"
	"prompttree/internal/domain"
)

// RegisterReadTools adds all read-only prompt tree tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, b *Backend) {
	s.AddTool(treeTool(), b.handle("tree", treeHandler))
	s.AddTool(getNodeTool(), b.handle("get_node", getNodeHandler))
	s.AddTool(searchTool(), b.handle("search", searchHandler))
	s.AddTool(statsTool(), b.handle("stats", statsHandler))
	s.AddTool(versionsTool(), b.handle("versions", versionsHandler))
	s.AddTool(exportTool(), b.handle("export", exportHandler))
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the prompt tree outline with node IDs."),
	)
}

func treeHandler(_ context.Context, s *application.Session, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t := s.Tree()
	if t == nil {
		return toolError(application.ErrNoTree)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", t.Title, t.ID)
	for _, fn := range domain.AllNodes(t.RootNode) {
		fmt.Fprintf(&sb, "%s%s  %s\n", strings.Repeat("  ", fn.Level), fn.Node.ID, fn.Node.Title)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// --- get_node ---

func getNodeTool() mcp.Tool {
	return mcp.NewTool("get_node",
		mcp.WithDescription("Read a node's title, content, examples and direct children."),
		mcp.WithString("id",
			mcp.Description("Node ID (8 characters, as shown by the tree tool)"),
			mcp.Required(),
		),
	)
}

func getNodeHandler(_ context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if err := application.ValidateRequired("nodeID", id); err != nil {
		return toolError(err)
	}
	if !s.HasTree() {
		return toolError(application.ErrNoTree)
	}
	n := s.Tree().FindNode(id)
	if n == nil {
		return toolError(fmt.Errorf("node %s: %w", id, application.ErrNotFound))
	}
	return mcp.NewToolResultText(formatNode(n)), nil
}

func formatNode(n *domain.Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\nid: %s\n", n.Title, n.ID)
	if n.Content != "" {
		fmt.Fprintf(&sb, "\n%s\n", n.Content)
	}
	if len(n.Examples) > 0 {
		sb.WriteString("\nExamples:\n")
		for _, ex := range n.Examples {
			fmt.Fprintf(&sb, "- %s\n", ex)
		}
	}
	if len(n.Children) > 0 {
		sb.WriteString("\nChildren:\n")
		for i, child := range n.Children {
			fmt.Fprintf(&sb, "%d. %s  %s\n", i, child.ID, child.Title)
		}
	}
	return sb.String()
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Case-insensitive search over node titles and content."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
		mcp.WithString("scope",
			mcp.Description("Fields to search"),
			mcp.Enum("all", "titles", "content"),
		),
	)
}

func searchHandler(ctx context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return toolError(fmt.Errorf("query is required"))
	}
	scope, err := domain.ParseSearchScope(req.GetString("scope", "all"))
	if err != nil {
		return toolError(err)
	}

	results, err := commands.NewSearchCommand(s, query, scope).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "%s  %s  [%s]", r.Node.ID, r.Node.Title, r.MatchType)
		if r.Snippet != "" {
			fmt.Fprintf(&sb, "  %s", r.Snippet)
		}
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// --- stats ---

func statsTool() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Node count, nodes with content and depth of the prompt tree."),
	)
}

func statsHandler(_ context.Context, s *application.Session, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.Stats()
	return mcp.NewToolResultText(fmt.Sprintf("nodes: %d\nwith content: %d\ndepth: %d\nversions: %d\n",
		st.Nodes, st.NodesWithContent, st.Depth, s.Versions().Len())), nil
}

// --- versions ---

func versionsTool() mcp.Tool {
	return mcp.NewTool("versions",
		mcp.WithDescription("List saved versions, newest first. The leading number can be used as a version reference."),
	)
}

func versionsHandler(_ context.Context, s *application.Session, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list := s.Versions().List()
	if len(list) == 0 {
		return mcp.NewToolResultText("No versions saved."), nil
	}
	var sb strings.Builder
	for i, v := range list {
		sb.WriteString(formatVersion(i+1, v))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatVersion(pos int, v domain.VersionSummary) string {
	return fmt.Sprintf("#%d  %s  %s  %s  %d nodes", pos, shortID(v.ID), v.Timestamp.Local().Format("2006-01-02 15:04"), v.Label, v.NodeCount)
}

// --- export ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export",
		mcp.WithDescription("Render the prompt tree as Markdown, JSON or an ASCII outline."),
		mcp.WithString("format",
			mcp.Description("Output format (default markdown)"),
			mcp.Enum("markdown", "json", "ascii"),
		),
	)
}

func exportHandler(_ context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.HasTree() {
		return toolError(application.ErrNoTree)
	}
	format, err := export.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return toolError(err)
	}
	out, err := export.Render(s.Tree(), format)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(out), nil
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
