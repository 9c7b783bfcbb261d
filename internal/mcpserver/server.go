// Package mcpserver publishes the tool registry as an MCP server on stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
	"github.com/HexSleeves/hrchat/internal/logging"
	"github.com/HexSleeves/hrchat/internal/tools"
)

const serverName = "hrchat"

type MCPServer struct {
	server   *server.MCPServer
	executor *tools.Executor
	ctx      context.Context
	logger   *slog.Logger
}

// New registers every tool of the executor's registry. ctx bounds all tool
// calls made through the server.
func New(ctx context.Context, executor *tools.Executor, version string, logger *slog.Logger) *MCPServer {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &MCPServer{
		server: server.NewMCPServer(
			serverName,
			version,
			server.WithToolCapabilities(true),
			server.WithLogging(),
		),
		executor: executor,
		ctx:      ctx,
		logger:   logger,
	}

	for _, t := range executor.Registry().Descriptors() {
		s.server.AddTool(t, s.handler(t.Name))
	}
	s.server.AddNotificationHandler(s.handleNotification)

	logger.Info("mcp server created", "tools", executor.Registry().Len())
	return s
}

// handler adapts one registry tool to the mcp-go handler shape. Tool
// failures surface as JSON-RPC errors carrying the error code.
func (s *MCPServer) handler(name string) func(map[string]interface{}) (*mcp.CallToolResult, error) {
	return func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		resp, err := s.executor.Execute(s.ctx, name, arguments)
		if err != nil {
			code := hrerrors.CodeOf(err, hrerrors.CodeExecution)
			s.logger.Warn("mcp tool call failed", "tool", name, "code", string(code), "error", err)
			return nil, fmt.Errorf("%s: %s", code, hrerrors.MessageOf(err))
		}

		content := make([]interface{}, 0, len(resp.Content))
		for _, c := range resp.Content {
			content = append(content, mcp.TextContent{Type: c.Type, Text: c.Text})
		}
		s.logger.Debug("mcp tool call", "tool", name)
		return &mcp.CallToolResult{Content: content}, nil
	}
}

func (s *MCPServer) handleNotification(notification mcp.JSONRPCNotification) {
	s.logger.Debug("mcp notification", "method", notification.Method)
}

// Serve blocks serving JSON-RPC on stdin/stdout.
func (s *MCPServer) Serve() error {
	s.logger.Info("starting mcp stdio server")
	if err := server.ServeStdio(s.server); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
