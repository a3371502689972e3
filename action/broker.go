package action

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Decision represents the visitor's answer to a confirm request.
type Decision struct {
	// RequestID identifies the confirm request being answered.
	RequestID string `json:"requestId"`
	// Accepted is true when the visitor accepted.
	Accepted bool `json:"accepted"`
	// Reason optionally explains a decline.
	Reason string `json:"reason,omitempty"`
}

// ConfirmBroker routes visitor decisions to action handlers blocked in
// Confirm. The widget renders the dialog and reports the decision back; the
// broker matches it to the waiting request by ID.
//
// Usage:
//
//	broker := action.NewConfirmBroker(
//	    action.WithOnRequest(func(id string, opts action.ConfirmOptions) {
//	        // forward the request to the widget
//	    }),
//	)
//	// when the widget answers:
//	broker.Decide(action.Decision{RequestID: id, Accepted: true})
type ConfirmBroker struct {
	mu        sync.Mutex
	pending   map[string]chan Decision
	timeout   time.Duration
	onRequest func(id string, opts ConfirmOptions)
}

// BrokerOption configures a ConfirmBroker.
type BrokerOption func(*ConfirmBroker)

// WithConfirmTimeout sets how long Confirm waits for a decision before
// declining. The default is 2 minutes.
func WithConfirmTimeout(d time.Duration) BrokerOption {
	return func(b *ConfirmBroker) {
		b.timeout = d
	}
}

// WithOnRequest sets a callback invoked when a confirm request is submitted.
// The client uses this to forward the request to the widget.
func WithOnRequest(fn func(id string, opts ConfirmOptions)) BrokerOption {
	return func(b *ConfirmBroker) {
		b.onRequest = fn
	}
}

// NewConfirmBroker creates a ConfirmBroker.
func NewConfirmBroker(opts ...BrokerOption) *ConfirmBroker {
	b := &ConfirmBroker{
		pending: make(map[string]chan Decision),
		timeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Confirm registers a pending request and blocks until the visitor decides,
// the timeout elapses (decline), or the context is cancelled.
// Implements Confirmer.
func (b *ConfirmBroker) Confirm(ctx context.Context, opts ConfirmOptions) (bool, error) {
	id := uuid.NewString()
	ch := make(chan Decision, 1)

	b.mu.Lock()
	b.pending[id] = ch
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
	}()

	if b.onRequest != nil {
		b.onRequest(id, opts)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	select {
	case decision := <-ch:
		return decision.Accepted, nil
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		// Timed out waiting on the visitor: treat as a decline.
		return false, nil
	}
}

// Decide sends a visitor decision to the broker. The decision is routed to
// the waiting confirm request for the given request ID.
//
// Returns an error if there is no pending request with that ID.
func (b *ConfirmBroker) Decide(decision Decision) error {
	b.mu.Lock()
	ch, ok := b.pending[decision.RequestID]
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("action: no pending confirm request %q", decision.RequestID)
	}

	// Non-blocking send - a duplicate decision for the same request is a no-op
	select {
	case ch <- decision:
	default:
	}

	return nil
}

// Accept is a convenience method to accept a confirm request.
func (b *ConfirmBroker) Accept(requestID string) error {
	return b.Decide(Decision{RequestID: requestID, Accepted: true})
}

// Decline is a convenience method to decline a confirm request.
func (b *ConfirmBroker) Decline(requestID, reason string) error {
	return b.Decide(Decision{
		RequestID: requestID,
		Accepted:  false,
		Reason:    reason,
	})
}

// PendingCount returns the number of pending confirm requests.
func (b *ConfirmBroker) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// HasPending returns true if any confirm requests are waiting on a decision.
func (b *ConfirmBroker) HasPending() bool {
	return b.PendingCount() > 0
}
