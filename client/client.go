// Package client provides the initialization shim and handle for the hosted
// YourGPT widget.
//
// Connect performs the one-time runtime handshake and returns a *Client, the
// typed handle through which the host subscribes to state changes, registers
// AI actions, and drives the widget's imperative surface.
package client

import (
	"context"
	"sync"

	widget "github.com/yourgpt/widget-sdk-go"
	"github.com/yourgpt/widget-sdk-go/action"
	"github.com/yourgpt/widget-sdk-go/event"
	"github.com/yourgpt/widget-sdk-go/internal/store"
)

// Client is a handle to an initialized widget session. It owns the runtime
// for its lifetime: the frame read loop, the state mirror, the action
// registry, and the confirm broker all hang off it. Create one with Connect
// and release it with Close.
type Client struct {
	cfg      widget.Config
	runtime  widget.Runtime
	actions  *action.Registry
	confirms *action.ConfirmBroker
	events   chan<- event.Event
	shared   *event.SharedState
	messages *store.MessageLog

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.RWMutex
	subs        map[int]func(widget.State)
	nextSub     int
	initialized bool

	closeOnce sync.Once
	wg        sync.WaitGroup

	confirmTimeout []action.BrokerOption
	messageLimit   int
}

// Connect initializes the hosted widget and returns a ready handle.
//
// The runtime is resolved in order: WithRuntime option, cfg.Runtime, then
// the process-wide default factory. When none is available Connect returns
// ErrRuntimeUnavailable without contacting anything, so initializing in a
// headless environment is a guaranteed no-op.
//
// Initialization failures are normalized into *widget.Error, reported to
// cfg.OnError when set, and never retried.
func Connect(ctx context.Context, cfg widget.Config, opts ...Option) (*Client, error) {
	c := &Client{
		cfg:      cfg,
		actions:  action.NewRegistry(),
		subs:     make(map[int]func(widget.State)),
		shared:   event.NewSharedState(),
		runtime:  cfg.Runtime,
		messages: nil,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.messages = store.NewMessageLog(c.messageLimit)

	if c.runtime == nil {
		rt, err := widget.DefaultRuntime(cfg)
		if err != nil {
			return nil, err
		}
		c.runtime = rt
	}

	initCtx, cancel := context.WithTimeout(ctx, cfg.InitTimeoutOrDefault())
	defer cancel()

	if err := c.runtime.Init(initCtx, cfg); err != nil {
		werr := widget.Coerce("init", err)
		if cfg.OnError != nil {
			cfg.OnError(werr)
		}
		return nil, werr
	}

	brokerOpts := append([]action.BrokerOption{
		action.WithOnRequest(c.sendConfirmRequest),
	}, c.confirmTimeout...)
	c.confirms = action.NewConfirmBroker(brokerOpts...)

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.initialized = true

	c.wg.Add(1)
	go c.readLoop()

	if cfg.OnInitialized != nil {
		cfg.OnInitialized()
	}
	event.Emit(c.events, event.Event{Type: event.Initialized})

	return c, nil
}

// Initialized reports whether the handle completed initialization and has
// not been closed.
func (c *Client) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// State returns the current widget state snapshot.
func (c *Client) State() widget.State {
	return c.shared.Snapshot()
}

// Messages returns a copy of the conversation history seen by this handle.
func (c *Client) Messages() []widget.Message {
	return c.messages.Messages()
}

// OnStateChange subscribes to state snapshots. Every snapshot received from
// the widget is delivered verbatim, in order, until unsubscribe is called.
// The returned unsubscribe function is idempotent.
func (c *Client) OnStateChange(fn func(widget.State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Actions returns the action registry backing this handle.
func (c *Client) Actions() *action.Registry {
	return c.actions
}

// RegisterAction adds an action with its handler.
// Returns an error if the name is already registered.
func (c *Client) RegisterAction(a widget.Action, h action.Handler) error {
	return c.actions.Register(a, h)
}

// UnregisterAction removes an action. No-op if the name is not registered.
func (c *Client) UnregisterAction(name string) {
	c.actions.Unregister(name)
}

// Respond delivers an assistant-side message into the conversation on behalf
// of a running action handler. Implements action.Responder.
func (c *Client) Respond(ctx context.Context, message string) error {
	m := widget.NewAssistantMessage(message)
	f, err := widget.NewFrame(widget.FrameMessage, m)
	if err != nil {
		return err
	}
	if err := c.send(ctx, f); err != nil {
		return err
	}
	c.messages.Append(m)
	event.Emit(c.events, event.Event{Type: event.MessageSent, Message: &m})
	return nil
}

// SendMessage sends a visitor message through the widget.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	m := widget.NewUserMessage(text)
	f, err := widget.NewFrame(widget.FrameMessage, m)
	if err != nil {
		return err
	}
	if err := c.send(ctx, f); err != nil {
		return err
	}
	c.messages.Append(m)
	event.Emit(c.events, event.Event{Type: event.MessageSent, Message: &m})
	return nil
}

// Open expands the chat panel.
func (c *Client) Open(ctx context.Context) error {
	return c.sendControl(ctx, widget.FrameOpen)
}

// ClosePanel collapses the chat panel.
func (c *Client) ClosePanel(ctx context.Context) error {
	return c.sendControl(ctx, widget.FrameClose)
}

// Show makes the widget launcher visible.
func (c *Client) Show(ctx context.Context) error {
	return c.sendControl(ctx, widget.FrameShow)
}

// Hide hides the widget launcher.
func (c *Client) Hide(ctx context.Context) error {
	return c.sendControl(ctx, widget.FrameHide)
}

// Close releases the runtime session. Pending confirms are cancelled and
// in-flight action handlers are waited for. Safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.initialized = false
		c.subs = make(map[int]func(widget.State))
		c.mu.Unlock()

		c.cancel()
		err = c.runtime.Close()
		c.wg.Wait()
		event.Emit(c.events, event.Event{Type: event.Closed})
	})
	return err
}

// sendControl sends a bodyless control frame.
func (c *Client) sendControl(ctx context.Context, t widget.FrameType) error {
	f, err := widget.NewFrame(t, nil)
	if err != nil {
		return err
	}
	return c.send(ctx, f)
}

// send delivers a frame to the runtime, normalizing failures.
func (c *Client) send(ctx context.Context, f widget.Frame) error {
	if !c.Initialized() {
		return widget.ErrClosed
	}
	if err := c.runtime.Send(ctx, f); err != nil {
		return widget.Coerce("send", err)
	}
	return nil
}

// sendConfirmRequest forwards a confirm request to the widget.
func (c *Client) sendConfirmRequest(id string, opts action.ConfirmOptions) {
	payload := struct {
		RequestID string `json:"requestId"`
		action.ConfirmOptions
	}{RequestID: id, ConfirmOptions: opts}

	f, err := widget.NewFrame(widget.FrameConfirmRequest, payload)
	if err != nil {
		c.reportError(widget.Coerce("confirm", err))
		return
	}
	if err := c.send(c.ctx, f); err != nil {
		c.reportError(widget.Coerce("confirm", err))
		return
	}
	event.Emit(c.events, event.Event{Type: event.ConfirmRequested, ConfirmID: id})
}

// reportError surfaces a post-init runtime failure through the configured
// callback and the event stream.
func (c *Client) reportError(err error) {
	if c.cfg.OnError != nil {
		c.cfg.OnError(err)
	}
	event.Emit(c.events, event.Event{Type: event.RuntimeError, Error: err})
}

// helpers builds the per-invocation helper set wired to this handle.
func (c *Client) helpers() action.Helpers {
	return action.NewHelpers(c, c.confirms)
}
