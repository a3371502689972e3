package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	widget "github.com/yourgpt/widget-sdk-go"
	"github.com/yourgpt/widget-sdk-go/action"
)

// RemoteActions surfaces the tools of an MCP server as widget actions.
// Invocations are proxied to the remote server.
//
// RemoteActions is safe for concurrent use. The action list is cached
// locally and can be refreshed with [RemoteActions.Refresh].
type RemoteActions struct {
	client  *client.Client
	mu      sync.RWMutex
	actions map[string]widget.Action
}

// NewRemoteActions connects to an MCP server over stdio. The command is the
// path to the server executable, and args are passed to it.
//
// Example:
//
//	remote, err := mcp.NewRemoteActions(ctx, "./my-mcp-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	remote.Attach(handle.Actions())
func NewRemoteActions(ctx context.Context, command string, env []string, args ...string) (*RemoteActions, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}

	return newRemoteActionsFromClient(ctx, c)
}

// NewRemoteActionsSSE connects to an MCP server over SSE.
func NewRemoteActionsSSE(ctx context.Context, baseURL string) (*RemoteActions, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSE MCP client: %w", err)
	}

	return newRemoteActionsFromClient(ctx, c)
}

// NewRemoteActionsFromClient creates a RemoteActions from an existing MCP
// client. The function starts the client, initializes the session, and
// fetches the tool list.
func NewRemoteActionsFromClient(ctx context.Context, c *client.Client) (*RemoteActions, error) {
	return newRemoteActionsFromClient(ctx, c)
}

func newRemoteActionsFromClient(ctx context.Context, c *client.Client) (*RemoteActions, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "widget-sdk-mcp-client",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	r := &RemoteActions{
		client:  c,
		actions: make(map[string]widget.Action),
	}

	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	return r, nil
}

// Close closes the connection to the MCP server.
func (r *RemoteActions) Close() error {
	return r.client.Close()
}

// Refresh fetches the current tool list from the MCP server. Call it to
// pick up changes when the server's tools are dynamic.
func (r *RemoteActions) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.actions = make(map[string]widget.Action, len(result.Tools))
	for _, t := range result.Tools {
		r.actions[t.Name] = FromMCPTool(t)
	}

	return nil
}

// Actions returns all actions available from the MCP server.
func (r *RemoteActions) Actions() []widget.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]widget.Action, 0, len(r.actions))
	for _, a := range r.actions {
		actions = append(actions, a)
	}
	return actions
}

// GetAction retrieves an action definition by name.
func (r *RemoteActions) GetAction(name string) (widget.Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actions[name]
	return a, ok
}

// Names returns the names of all available actions.
func (r *RemoteActions) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	return names
}

// Len returns the number of available actions.
func (r *RemoteActions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

// Has returns true if the server offers an action with the given name.
func (r *RemoteActions) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actions[name]
	return ok
}

// Execute invokes an action on the remote MCP server. Transport failures
// are reported as error results rather than errors, so the widget still
// receives a result frame for the invocation.
func (r *RemoteActions) Execute(ctx context.Context, inv widget.Invocation) (widget.Result, error) {
	req := ToMCPCallToolRequest(inv)

	result, err := r.client.CallTool(ctx, req)
	if err != nil {
		return widget.Result{
			InvocationID: inv.ID,
			Content:      err.Error(),
			IsError:      true,
		}, nil
	}

	return FromMCPCallToolResult(inv.ID, result), nil
}

// Attach registers every remote action into the given registry with a
// handler that proxies invocations to the MCP server. Names that are
// already registered cause an error.
func (r *RemoteActions) Attach(registry *action.Registry) error {
	for _, a := range r.Actions() {
		name := a.Name
		handler := func(ctx context.Context, inv widget.Invocation, _ action.Helpers) (string, error) {
			res, err := r.Execute(ctx, widget.Invocation{ID: inv.ID, Name: name, Arguments: inv.Arguments})
			if err != nil {
				return "", err
			}
			if res.IsError {
				return "", errors.New(res.Content)
			}
			return res.Content, nil
		}
		if err := registry.Register(a, handler); err != nil {
			return err
		}
	}
	return nil
}
