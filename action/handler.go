package action

import (
	"context"

	widget "github.com/yourgpt/widget-sdk-go"
)

// Handler is a function that executes an action invocation.
// The context supports cancellation and timeout.
// The invocation carries the action name, ID, and arguments as a JSON string.
// Returns the result content string, or an error if execution failed.
type Handler func(ctx context.Context, inv widget.Invocation, h Helpers) (string, error)

// TypedHandler is a function that executes an action with typed arguments.
// The args parameter is validated against the generated schema and
// unmarshaled from the invocation's JSON arguments.
type TypedHandler[T any] func(ctx context.Context, args T, h Helpers) (string, error)

// Responder delivers a message into the widget conversation on behalf of a
// running action handler.
type Responder interface {
	Respond(ctx context.Context, message string) error
}

// Confirmer asks the visitor to accept or decline before an action proceeds.
type Confirmer interface {
	Confirm(ctx context.Context, opts ConfirmOptions) (bool, error)
}

// ConfirmOptions describes the confirmation dialog the widget renders.
// Rendering itself belongs to the hosted widget.
type ConfirmOptions struct {
	// Title is the dialog heading.
	Title string `json:"title"`
	// Description provides additional context.
	Description string `json:"description,omitempty"`
	// AcceptLabel overrides the accept button label.
	AcceptLabel string `json:"acceptLabel,omitempty"`
	// DeclineLabel overrides the decline button label.
	DeclineLabel string `json:"declineLabel,omitempty"`
}

// Helpers is the per-invocation helper set passed to every handler.
// The zero value is usable: Respond is a no-op and Confirm declines.
type Helpers struct {
	responder Responder
	confirmer Confirmer
}

// NewHelpers creates a helper set backed by the given responder and confirmer.
// Either may be nil.
func NewHelpers(r Responder, c Confirmer) Helpers {
	return Helpers{responder: r, confirmer: c}
}

// Respond delivers a message into the conversation. No-op when the helper
// set has no responder.
func (h Helpers) Respond(ctx context.Context, message string) error {
	if h.responder == nil {
		return nil
	}
	return h.responder.Respond(ctx, message)
}

// Confirm blocks until the visitor accepts or declines, the confirmation
// times out (decline), or the context is cancelled. Declines when the helper
// set has no confirmer.
func (h Helpers) Confirm(ctx context.Context, opts ConfirmOptions) (bool, error) {
	if h.confirmer == nil {
		return false, nil
	}
	return h.confirmer.Confirm(ctx, opts)
}
