// Package event provides the typed lifecycle event stream for the widget SDK
// and the shared state document mirrored from the hosted widget.
package event

import (
	"time"

	widget "github.com/yourgpt/widget-sdk-go"
)

// Type identifies the kind of event.
type Type string

// Lifecycle events
const (
	// Initialized fires once the widget handle is ready.
	Initialized Type = "initialized"

	// Closed fires when the client shuts down or the runtime stream ends.
	Closed Type = "closed"

	// RuntimeError fires when the runtime reports a failure after init.
	RuntimeError Type = "runtime_error"
)

// State events
const (
	// StateChange fires for each state snapshot received from the widget.
	StateChange Type = "state_change"
)

// Message events
const (
	// MessageReceived fires when the widget delivers a chat message.
	MessageReceived Type = "message_received"

	// MessageSent fires when the host sends a message through the widget.
	MessageSent Type = "message_sent"
)

// Action events
const (
	// ActionInvoked fires when the widget's AI requests an action.
	ActionInvoked Type = "action_invoked"

	// ActionCompleted fires when an action handler returns successfully.
	ActionCompleted Type = "action_completed"

	// ActionFailed fires when an action handler returns an error.
	ActionFailed Type = "action_failed"
)

// Confirm events
const (
	// ConfirmRequested fires when an action handler asks for confirmation.
	ConfirmRequested Type = "confirm_requested"

	// ConfirmResolved fires when the visitor accepts or declines.
	ConfirmResolved Type = "confirm_resolved"
)

// Event represents an observable occurrence in the widget session.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// State contains the snapshot for StateChange events.
	State *widget.State

	// Message contains the message for MessageReceived/MessageSent events.
	Message *widget.Message

	// Invocation contains the invocation for action events.
	Invocation *widget.Invocation

	// Result contains the result for ActionCompleted/ActionFailed events.
	Result *widget.Result

	// ConfirmID identifies the confirm request for confirm events.
	ConfirmID string

	// Accepted is the visitor's decision for ConfirmResolved events.
	Accepted bool

	// Error contains the error for RuntimeError and ActionFailed events.
	Error error

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
