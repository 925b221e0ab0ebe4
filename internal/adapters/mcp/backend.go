package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"prompttree/internal/application"
	"prompttree/internal/ports"
)

// Backend serializes tool calls against one session. The session is
// reloaded before every call so edits made by the TUI or CLI are visible.
type Backend struct {
	mu      sync.Mutex
	session *application.Session
	catalog ports.TemplateCatalog
	log     *zap.Logger
}

// NewBackend creates a tool backend
func NewBackend(session *application.Session, catalog ports.TemplateCatalog, log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{session: session, catalog: catalog, log: log}
}

type sessionHandler func(ctx context.Context, s *application.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

func (b *Backend) handle(name string, fn sessionHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.mu.Lock()
		defer b.mu.Unlock()

		if err := b.session.Load(ctx); err != nil {
			b.log.Error("tool failed to load session", zap.String("tool", name), zap.Error(err))
			return toolError(err)
		}

		result, err := fn(ctx, b.session, req)
		if result != nil && result.IsError {
			b.log.Info("tool returned error", zap.String("tool", name))
		} else {
			b.log.Debug("tool call", zap.String("tool", name))
		}
		return result, err
	}
}
