package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	widget "github.com/yourgpt/widget-sdk-go"
	"github.com/yourgpt/widget-sdk-go/action"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	helpers action.Helpers
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithHelpers sets the action helpers passed to every handler. Without it
// handlers get the zero Helpers, where Respond is a no-op and Confirm
// declines.
func WithHelpers(h action.Helpers) ServerOption {
	return func(c *serverConfig) {
		c.helpers = h
	}
}

// NewServer creates an MCP server that exposes the actions from an
// [action.Registry]. Each registered action becomes a discoverable MCP tool
// backed by its handler.
//
// Example:
//
//	registry := action.NewRegistry().Add(
//	    action.Func("add_task", "Add a task", addTaskHandler),
//	    action.Func("list_tasks", "List tasks", listTasksHandler),
//	)
//
//	mcpServer := mcp.NewServer(registry,
//	    mcp.WithName("todo-actions"),
//	    mcp.WithVersion("1.0.0"),
//	)
//
//	server.ServeStdio(mcpServer)
func NewServer(registry *action.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "widget-actions",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	for _, a := range registry.Actions() {
		name := a.Name // capture for closure

		handler, ok := registry.Get(name)
		if !ok || handler == nil {
			continue
		}

		s.AddTool(ToMCPTool(a), createMCPHandler(name, handler, cfg.helpers))
	}

	return s
}

// createMCPHandler wraps an action.Handler as an MCP tool handler.
func createMCPHandler(name string, handler action.Handler, helpers action.Helpers) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var argsJSON string
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			argsJSON = string(data)
		} else {
			argsJSON = "{}"
		}

		inv := widget.Invocation{
			ID:        "", // MCP does not carry invocation IDs
			Name:      name,
			Arguments: argsJSON,
		}

		result, err := handler(ctx, inv, helpers)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(result), nil
	}
}

// ServeStdio starts an MCP server that communicates over stdin/stdout.
// This is the standard transport for MCP servers invoked as subprocesses.
//
// Example:
//
//	registry := action.NewRegistry().Add(
//	    action.Func("hello", "Say hello", helloHandler),
//	)
//
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
func ServeStdio(registry *action.Registry, opts ...ServerOption) error {
	s := NewServer(registry, opts...)
	return server.ServeStdio(s)
}
