package widget

import "encoding/json"

// Action defines a named callback the widget's AI can invoke.
type Action struct {
	// Name is the unique identifier for the action.
	Name string
	// Description explains what the action does (helps the AI decide when to use it).
	Description string
	// Parameters is a JSON Schema object defining the action arguments.
	Parameters json.RawMessage
}

// Invocation represents a request from the widget's AI to run an action.
type Invocation struct {
	// ID is a unique identifier for this invocation (used to match results).
	ID string `json:"id"`
	// Name is the name of the action to run.
	Name string `json:"name"`
	// Arguments is a JSON string containing the AI-decided arguments.
	Arguments string `json:"arguments"`
}

// Result represents the outcome of executing an action invocation.
type Result struct {
	// InvocationID matches the ID from the corresponding Invocation.
	InvocationID string `json:"invocationId"`
	// Content is the result content returned to the widget.
	Content string `json:"content"`
	// IsError indicates the result represents a handler failure.
	IsError bool `json:"isError,omitempty"`
}
