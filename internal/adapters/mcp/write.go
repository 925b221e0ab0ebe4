package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"prompttree/internal/application"
	"prompttree/internal/application/commands"
)

// RegisterWriteTools adds all tree-mutating tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, b *Backend) {
	s.AddTool(addNodeTool(), b.handle("add_node", addNodeHandler))
	s.AddTool(updateNodeTool(), b.handle("update_node", updateNodeHandler))
	s.AddTool(deleteNodeTool(), b.handle("delete_node", deleteNodeHandler))
	s.AddTool(moveNodeTool(), b.handle("move_node", moveNodeHandler))
	s.AddTool(reorderTool(), b.handle("reorder_children", reorderHandler))
	s.AddTool(saveVersionTool(), b.handle("save_version", saveVersionHandler))
	s.AddTool(restoreVersionTool(), b.handle("restore_version", restoreVersionHandler))
	s.AddTool(useTemplateTool(), b.handle("use_template", b.useTemplateHandler))
}

// --- add_node ---

func addNodeTool() mcp.Tool {
	return mcp.NewTool("add_node",
		mcp.WithDescription("Append a new node as the last child of a parent node."),
		mcp.WithString("parent_id",
			mcp.Description("Parent node ID. Omit to add under the root."),
		),
		mcp.WithString("title",
			mcp.Description("Node title"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Prompt text for the node"),
		),
		mcp.WithArray("examples",
			mcp.Description("Example strings"),
			mcp.WithStringItems(),
		),
	)
}

func addNodeHandler(ctx context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.HasTree() {
		return toolError(application.ErrNoTree)
	}
	parentID := req.GetString("parent_id", s.Tree().RootNode.ID)

	cmd := commands.NewAddNodeCommand(s, parentID,
		req.GetString("title", ""),
		req.GetString("content", ""),
		req.GetStringSlice("examples", nil),
	)
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- update_node ---

func updateNodeTool() mcp.Tool {
	return mcp.NewTool("update_node",
		mcp.WithDescription("Change a node's title, content or examples. Omitted fields are left unchanged."),
		mcp.WithString("id",
			mcp.Description("Node ID"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("content",
			mcp.Description("New content"),
		),
		mcp.WithArray("examples",
			mcp.Description("Replacement examples list"),
			mcp.WithStringItems(),
		),
	)
}

func updateNodeHandler(ctx context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := commands.NewEditNodeCommand(s, req.GetString("id", ""))

	args := req.GetArguments()
	if _, ok := args["title"]; ok {
		title := req.GetString("title", "")
		cmd.Title = &title
	}
	if _, ok := args["content"]; ok {
		content := req.GetString("content", "")
		cmd.Content = &content
	}
	if _, ok := args["examples"]; ok {
		examples := req.GetStringSlice("examples", []string{})
		cmd.Examples = &examples
	}

	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- delete_node ---

func deleteNodeTool() mcp.Tool {
	return mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node and its whole subtree. The root cannot be deleted."),
		mcp.WithString("id",
			mcp.Description("Node ID"),
			mcp.Required(),
		),
	)
}

func deleteNodeHandler(ctx context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := commands.NewDeleteCommand(s, req.GetString("id", "")).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- move_node ---

func moveNodeTool() mcp.Tool {
	return mcp.NewTool("move_node",
		mcp.WithDescription("Move a node under a new parent. A node cannot be moved into its own subtree."),
		mcp.WithString("id",
			mcp.Description("ID of the node to move"),
			mcp.Required(),
		),
		mcp.WithString("parent_id",
			mcp.Description("ID of the new parent"),
			mcp.Required(),
		),
		mcp.WithNumber("index",
			mcp.Description("Position among the new siblings. Omit to append."),
		),
	)
}

func moveNodeHandler(ctx context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := commands.NewMoveNodeCommand(s,
		req.GetString("id", ""),
		req.GetString("parent_id", ""),
		req.GetInt("index", -1),
	)
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- reorder_children ---

func reorderTool() mcp.Tool {
	return mcp.NewTool("reorder_children",
		mcp.WithDescription("Move a child of a node from one position to another (0-based)."),
		mcp.WithString("parent_id",
			mcp.Description("ID of the parent node"),
			mcp.Required(),
		),
		mcp.WithNumber("from",
			mcp.Description("Current position of the child"),
			mcp.Required(),
		),
		mcp.WithNumber("to",
			mcp.Description("Target position"),
			mcp.Required(),
		),
	)
}

func reorderHandler(ctx context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := commands.NewReorderCommand(s,
		req.GetString("parent_id", ""),
		req.GetInt("from", -1),
		req.GetInt("to", -1),
	)
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- save_version ---

func saveVersionTool() mcp.Tool {
	return mcp.NewTool("save_version",
		mcp.WithDescription("Save a snapshot of the current tree to the version history."),
		mcp.WithString("label",
			mcp.Description("Version label. Defaults to \"Version N\"."),
		),
	)
}

func saveVersionHandler(ctx context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := commands.NewSaveVersionCommand(s, req.GetString("label", "")).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- restore_version ---

func restoreVersionTool() mcp.Tool {
	return mcp.NewTool("restore_version",
		mcp.WithDescription("Replace the current tree with a saved version."),
		mcp.WithString("ref",
			mcp.Description("Version ID, unique ID prefix, or list position such as #1"),
			mcp.Required(),
		),
	)
}

func restoreVersionHandler(ctx context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := commands.NewRestoreVersionCommand(s, req.GetString("ref", "")).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- use_template ---

func useTemplateTool() mcp.Tool {
	return mcp.NewTool("use_template",
		mcp.WithDescription("Replace the current tree with a fresh copy of a built-in template."),
		mcp.WithString("name",
			mcp.Description("Template name; abbreviations are matched fuzzily"),
			mcp.Required(),
		),
	)
}

func (b *Backend) useTemplateHandler(ctx context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if b.catalog == nil {
		return toolError(fmt.Errorf("no template catalog configured"))
	}
	result, err := commands.NewUseTemplateCommand(s, b.catalog, req.GetString("name", "")).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}
