package client

import (
	"time"

	widget "github.com/yourgpt/widget-sdk-go"
	"github.com/yourgpt/widget-sdk-go/action"
	"github.com/yourgpt/widget-sdk-go/event"
)

// Option configures a Client.
type Option func(*Client)

// WithRuntime injects the runtime used to reach the hosted widget,
// overriding cfg.Runtime and the default factory.
func WithRuntime(rt widget.Runtime) Option {
	return func(c *Client) {
		c.runtime = rt
	}
}

// WithActions installs a pre-populated action registry.
func WithActions(reg *action.Registry) Option {
	return func(c *Client) {
		if reg != nil {
			c.actions = reg
		}
	}
}

// WithEvents sets an optional channel for receiving session lifecycle
// events. Events are sent non-blocking; if the channel is full they are
// dropped.
func WithEvents(ch chan<- event.Event) Option {
	return func(c *Client) {
		c.events = ch
	}
}

// WithConfirmTimeout sets how long action handlers wait on a visitor
// confirmation before declining.
func WithConfirmTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.confirmTimeout = append(c.confirmTimeout, action.WithConfirmTimeout(d))
	}
}

// WithMessageLimit bounds the conversation history kept by the handle.
func WithMessageLimit(n int) Option {
	return func(c *Client) {
		c.messageLimit = n
	}
}
