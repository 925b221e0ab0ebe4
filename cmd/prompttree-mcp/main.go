package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "prompttree/internal/adapters/mcp"
	"prompttree/internal/bootstrap"
)

const version = "0.1.0"

func main() {
	dataFlag := flag.String("data", "", "data directory (overrides config)")
	flag.Parse()

	env, err := bootstrap.Open(context.Background(), *dataFlag)
	if err != nil {
		log.Fatalf("prompttree-mcp: %v", err)
	}
	defer env.Close()

	mcpServer := server.NewMCPServer(
		"prompttree-mcp",
		version,
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	backend := mcpadapter.NewBackend(env.Session, env.Catalog, env.Log)
	mcpadapter.RegisterReadTools(mcpServer, backend)
	mcpadapter.RegisterWriteTools(mcpServer, backend)

	if err := server.ServeStdio(mcpServer); err != nil {
		env.Log.Sugar().Errorf("serve: %v", err)
		log.Fatalf("prompttree-mcp: %v", err)
	}
}
