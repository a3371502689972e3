package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	widget "github.com/yourgpt/widget-sdk-go"
	"github.com/yourgpt/widget-sdk-go/action"
)

func TestToMCPTool(t *testing.T) {
	t.Run("converts widget action to MCP tool", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object","properties":{"title":{"type":"string"}}}`)
		a := widget.Action{
			Name:        "add_task",
			Description: "Add a task",
			Parameters:  schema,
		}

		mcpTool := ToMCPTool(a)

		assert.Equal(t, "add_task", mcpTool.Name)
		assert.Equal(t, "Add a task", mcpTool.Description)
		assert.Equal(t, schema, mcpTool.RawInputSchema)
	})

	t.Run("handles nil parameters", func(t *testing.T) {
		a := widget.Action{
			Name:        "ping",
			Description: "Ping the host",
			Parameters:  nil,
		}

		mcpTool := ToMCPTool(a)

		assert.Equal(t, "ping", mcpTool.Name)
		assert.Equal(t, "Ping the host", mcpTool.Description)
	})
}

func TestFromMCPTool(t *testing.T) {
	t.Run("converts MCP tool with raw schema", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object"}`)
		mcpTool := mcp.NewToolWithRawSchema("weather", "Get weather", schema)

		a := FromMCPTool(mcpTool)

		assert.Equal(t, "weather", a.Name)
		assert.Equal(t, "Get weather", a.Description)
		assert.JSONEq(t, `{"type":"object"}`, string(a.Parameters))
	})

	t.Run("converts MCP tool with structured schema", func(t *testing.T) {
		mcpTool := mcp.NewTool("search",
			mcp.WithDescription("Search the knowledge base"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		)

		a := FromMCPTool(mcpTool)

		assert.Equal(t, "search", a.Name)
		assert.Equal(t, "Search the knowledge base", a.Description)
		assert.NotNil(t, a.Parameters)
	})
}

func TestToMCPCallToolRequest(t *testing.T) {
	t.Run("converts invocation to MCP request", func(t *testing.T) {
		inv := widget.Invocation{
			ID:        "inv_123",
			Name:      "calculate",
			Arguments: `{"a": 10, "b": 5}`,
		}

		req := ToMCPCallToolRequest(inv)

		assert.Equal(t, "calculate", req.Params.Name)
		args, ok := req.Params.Arguments.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(10), args["a"])
		assert.Equal(t, float64(5), args["b"])
	})

	t.Run("handles empty arguments", func(t *testing.T) {
		inv := widget.Invocation{
			ID:        "inv_456",
			Name:      "noargs",
			Arguments: "",
		}

		req := ToMCPCallToolRequest(inv)

		assert.Equal(t, "noargs", req.Params.Name)
		assert.Nil(t, req.Params.Arguments)
	})
}

func TestFromMCPCallToolResult(t *testing.T) {
	t.Run("converts text result", func(t *testing.T) {
		mcpResult := mcp.NewToolResultText("Task added")

		result := FromMCPCallToolResult("inv_123", mcpResult)

		assert.Equal(t, "inv_123", result.InvocationID)
		assert.Equal(t, "Task added", result.Content)
		assert.False(t, result.IsError)
	})

	t.Run("converts error result", func(t *testing.T) {
		mcpResult := mcp.NewToolResultError("something went wrong")

		result := FromMCPCallToolResult("inv_456", mcpResult)

		assert.Equal(t, "inv_456", result.InvocationID)
		assert.Equal(t, "something went wrong", result.Content)
		assert.True(t, result.IsError)
	})

	t.Run("handles nil result", func(t *testing.T) {
		result := FromMCPCallToolResult("inv_789", nil)

		assert.Equal(t, "inv_789", result.InvocationID)
		assert.Equal(t, "", result.Content)
		assert.True(t, result.IsError)
	})
}

func TestToMCPCallToolResult(t *testing.T) {
	t.Run("converts success result", func(t *testing.T) {
		mcpResult := ToMCPCallToolResult(widget.Result{
			InvocationID: "inv_123",
			Content:      "done",
		})

		assert.False(t, mcpResult.IsError)
		require.Len(t, mcpResult.Content, 1)
	})

	t.Run("converts error result", func(t *testing.T) {
		mcpResult := ToMCPCallToolResult(widget.Result{
			InvocationID: "inv_456",
			Content:      "boom",
			IsError:      true,
		})

		assert.True(t, mcpResult.IsError)
	})
}

func initInProcessClient(t *testing.T, s *server.MCPServer) *client.Client {
	t.Helper()

	c, err := client.NewInProcessClient(s)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "test-client",
				Version: "1.0.0",
			},
		},
	})
	require.NoError(t, err)

	return c
}

// TestServerIntegration drives the server with an in-process MCP client.
func TestServerIntegration(t *testing.T) {
	t.Run("exposes actions from registry", func(t *testing.T) {
		registry := action.NewRegistry().Add(
			action.Func("echo", "Echo text", func(ctx context.Context, args struct {
				Text string `json:"text"`
			}, _ action.Helpers) (string, error) {
				return args.Text, nil
			}),
			action.Func("add", "Add numbers", func(ctx context.Context, args struct {
				A int `json:"a"`
				B int `json:"b"`
			}, _ action.Helpers) (string, error) {
				data, err := json.Marshal(args.A + args.B)
				return string(data), err
			}),
		)

		c := initInProcessClient(t, NewServer(registry,
			WithName("test-server"),
			WithVersion("1.0.0"),
		))

		result, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
		require.NoError(t, err)

		assert.Len(t, result.Tools, 2)

		names := make([]string, len(result.Tools))
		for i, tool := range result.Tools {
			names[i] = tool.Name
		}
		assert.Contains(t, names, "echo")
		assert.Contains(t, names, "add")
	})

	t.Run("calls actions and returns results", func(t *testing.T) {
		registry := action.NewRegistry().Add(
			action.Func("greet", "Greet someone", func(ctx context.Context, args struct {
				Name string `json:"name"`
			}, _ action.Helpers) (string, error) {
				return "Hello, " + args.Name + "!", nil
			}),
		)

		c := initInProcessClient(t, NewServer(registry))

		result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "greet",
				Arguments: map[string]any{
					"name": "World",
				},
			},
		})
		require.NoError(t, err)

		assert.False(t, result.IsError)
		require.Len(t, result.Content, 1)
		textContent, ok := result.Content[0].(mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "Hello, World!", textContent.Text)
	})

	t.Run("handles handler errors gracefully", func(t *testing.T) {
		registry := action.NewRegistry().Add(
			action.Func("fail", "Always fails", func(ctx context.Context, args struct{}, _ action.Helpers) (string, error) {
				return "", assert.AnError
			}),
		)

		c := initInProcessClient(t, NewServer(registry))

		result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "fail",
				Arguments: map[string]any{},
			},
		})
		require.NoError(t, err)

		assert.True(t, result.IsError)
	})
}

// TestRemoteActionsIntegration exercises RemoteActions against an
// in-process server.
func TestRemoteActionsIntegration(t *testing.T) {
	t.Run("lists actions from server", func(t *testing.T) {
		source := action.NewRegistry().Add(
			action.Func("ping", "Ping pong", func(ctx context.Context, args struct{}, _ action.Helpers) (string, error) {
				return "pong", nil
			}),
			action.Func("echo", "Echo text", func(ctx context.Context, args struct {
				Text string `json:"text"`
			}, _ action.Helpers) (string, error) {
				return args.Text, nil
			}),
		)

		c, err := client.NewInProcessClient(NewServer(source))
		require.NoError(t, err)

		ctx := context.Background()
		remote, err := NewRemoteActionsFromClient(ctx, c)
		require.NoError(t, err)
		defer remote.Close()

		assert.Equal(t, 2, remote.Len())
		assert.True(t, remote.Has("ping"))
		assert.True(t, remote.Has("echo"))

		ping, ok := remote.GetAction("ping")
		assert.True(t, ok)
		assert.Equal(t, "ping", ping.Name)
		assert.Equal(t, "Ping pong", ping.Description)
	})

	t.Run("executes remote actions", func(t *testing.T) {
		source := action.NewRegistry().Add(
			action.Func("add", "Add numbers", func(ctx context.Context, args struct {
				A int `json:"a"`
				B int `json:"b"`
			}, _ action.Helpers) (string, error) {
				data, err := json.Marshal(args.A + args.B)
				return string(data), err
			}),
		)

		c, err := client.NewInProcessClient(NewServer(source))
		require.NoError(t, err)

		ctx := context.Background()
		remote, err := NewRemoteActionsFromClient(ctx, c)
		require.NoError(t, err)
		defer remote.Close()

		result, err := remote.Execute(ctx, widget.Invocation{
			ID:        "inv_123",
			Name:      "add",
			Arguments: `{"a": 10, "b": 5}`,
		})
		require.NoError(t, err)

		assert.Equal(t, "inv_123", result.InvocationID)
		assert.Equal(t, "15", result.Content)
		assert.False(t, result.IsError)
	})

	t.Run("attaches remote actions to a local registry", func(t *testing.T) {
		source := action.NewRegistry().Add(
			action.Func("lookup", "Look up a record", func(ctx context.Context, args struct {
				Key string `json:"key"`
			}, _ action.Helpers) (string, error) {
				return "value-for-" + args.Key, nil
			}),
		)

		c, err := client.NewInProcessClient(NewServer(source))
		require.NoError(t, err)

		ctx := context.Background()
		remote, err := NewRemoteActionsFromClient(ctx, c)
		require.NoError(t, err)
		defer remote.Close()

		local := action.NewRegistry()
		require.NoError(t, remote.Attach(local))
		assert.Equal(t, 1, local.Len())

		result, err := local.Execute(ctx, widget.Invocation{
			ID:        "inv_456",
			Name:      "lookup",
			Arguments: `{"key": "answer"}`,
		}, action.Helpers{})
		require.NoError(t, err)

		assert.Equal(t, "value-for-answer", result.Content)
		assert.False(t, result.IsError)
	})
}
