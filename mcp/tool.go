// Package mcp bridges widget AI actions and MCP (Model Context Protocol).
//
// The bridge works in both directions:
//
//   - Server: expose an [action.Registry] as an MCP server so MCP clients
//     like desktop assistants can discover and invoke the widget's actions.
//   - Client: connect to an MCP server and surface its tools as widget
//     actions through [RemoteActions], which can be attached to a registry.
//
// # Exposing Actions as an MCP Server
//
//	registry := action.NewRegistry().Add(
//	    action.Func("add_task", "Add a task", addTaskHandler),
//	    action.Func("list_tasks", "List tasks", listTasksHandler),
//	)
//
//	// Serve over stdio (for subprocess-based MCP clients)
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
//
// # Consuming MCP Servers
//
//	remote, err := mcp.NewRemoteActions(ctx, "./my-mcp-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	// Surface the remote tools as widget actions
//	remote.Attach(handle.Actions())
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	widget "github.com/yourgpt/widget-sdk-go"
)

// ToMCPTool converts a widget Action to an MCP Tool. The action's
// Parameters JSON schema becomes the MCP tool's RawInputSchema.
func ToMCPTool(a widget.Action) mcp.Tool {
	return mcp.NewToolWithRawSchema(a.Name, a.Description, a.Parameters)
}

// ToMCPTools converts a slice of widget Actions to MCP Tools.
func ToMCPTools(actions []widget.Action) []mcp.Tool {
	result := make([]mcp.Tool, len(actions))
	for i, a := range actions {
		result[i] = ToMCPTool(a)
	}
	return result
}

// FromMCPTool converts an MCP Tool to a widget Action.
// It extracts the JSON schema from either RawInputSchema or InputSchema.
func FromMCPTool(t mcp.Tool) widget.Action {
	var schema json.RawMessage

	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else {
		data, err := json.Marshal(t.InputSchema)
		if err == nil {
			schema = data
		}
	}

	return widget.Action{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// FromMCPTools converts a slice of MCP Tools to widget Actions.
func FromMCPTools(tools []mcp.Tool) []widget.Action {
	result := make([]widget.Action, len(tools))
	for i, t := range tools {
		result[i] = FromMCPTool(t)
	}
	return result
}

// ToMCPCallToolRequest converts a widget Invocation to an MCP CallToolRequest.
func ToMCPCallToolRequest(inv widget.Invocation) mcp.CallToolRequest {
	var args any
	if inv.Arguments != "" {
		if err := json.Unmarshal([]byte(inv.Arguments), &args); err != nil {
			// Not valid JSON, pass the string through as-is
			args = inv.Arguments
		}
	}

	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      inv.Name,
			Arguments: args,
		},
	}
}

// FromMCPCallToolResult converts an MCP CallToolResult to a widget Result.
// The result content is extracted and concatenated as text.
func FromMCPCallToolResult(invocationID string, result *mcp.CallToolResult) widget.Result {
	if result == nil {
		return widget.Result{
			InvocationID: invocationID,
			Content:      "",
			IsError:      true,
		}
	}

	var textParts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			textParts = append(textParts, content.Text)
		case *mcp.TextContent:
			textParts = append(textParts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				textParts = append(textParts, string(data))
			}
		}
	}

	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			textParts = append(textParts, string(data))
		}
	}

	return widget.Result{
		InvocationID: invocationID,
		Content:      strings.Join(textParts, "\n"),
		IsError:      result.IsError,
	}
}

// ToMCPCallToolResult converts a widget Result to an MCP CallToolResult.
func ToMCPCallToolResult(result widget.Result) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}
