// Package ws provides the default WebSocket implementation of
// widget.Runtime. It dials the widget gateway, performs the init handshake,
// decodes incoming frames on a read loop, and reconnects a dropped session
// with exponential backoff. Initialization itself is never retried.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	widget "github.com/yourgpt/widget-sdk-go"
)

const (
	defaultHandshakeTimeout = 15 * time.Second
	defaultPingInterval     = 30 * time.Second
	writeTimeout            = 10 * time.Second
)

// initPayload is the body of the init frame sent during the handshake.
type initPayload struct {
	WidgetUID string            `json:"widget_uid"`
	SessionID string            `json:"session_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Runtime is a widget.Runtime backed by a WebSocket connection to the
// widget gateway.
type Runtime struct {
	dialer  websocket.Dialer
	backoff Backoff
	ping    time.Duration
	log     *logrus.Entry

	cfg widget.Config

	mu      sync.Mutex // guards conn and started
	conn    *websocket.Conn
	started bool

	frames    chan widget.Frame
	closeCh   chan struct{}
	closeOnce sync.Once

	retryMu sync.Mutex
	retries int
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithBackoff sets the reconnect backoff configuration.
func WithBackoff(b Backoff) Option {
	return func(r *Runtime) {
		r.backoff = b
	}
}

// WithLogger sets the logger. Defaults to the standard logrus logger.
func WithLogger(l *logrus.Logger) Option {
	return func(r *Runtime) {
		r.log = logrus.NewEntry(l)
	}
}

// WithHandshakeTimeout bounds the WebSocket dial.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.dialer.HandshakeTimeout = d
	}
}

// WithPingInterval sets the keepalive ping interval.
func WithPingInterval(d time.Duration) Option {
	return func(r *Runtime) {
		r.ping = d
	}
}

// New creates an unconnected Runtime. Call Init to open the session.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		dialer:  websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout},
		backoff: DefaultBackoff(),
		ping:    defaultPingInterval,
		log:     logrus.NewEntry(logrus.StandardLogger()),
		frames:  make(chan widget.Frame, 100),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register installs a process-wide runtime factory that connects over
// WebSocket. Configs without an endpoint are rejected without contacting
// anything.
func Register(opts ...Option) {
	widget.RegisterRuntime(func(cfg widget.Config) (widget.Runtime, error) {
		if cfg.Endpoint == "" {
			return nil, widget.ErrRuntimeUnavailable
		}
		return New(opts...), nil
	})
}

// Init dials the gateway and performs the init handshake: the init frame is
// sent and the connection is not usable until the gateway acknowledges it.
// A failed handshake is returned as-is, never retried.
func (r *Runtime) Init(ctx context.Context, cfg widget.Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("ws: endpoint required")
	}
	r.cfg = cfg
	r.log = r.log.WithFields(logrus.Fields{
		"endpoint":   cfg.Endpoint,
		"widget_uid": cfg.WidgetUID,
	})

	conn, err := r.dial(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.conn = conn
	r.started = true
	r.mu.Unlock()

	r.log.Debug("session established")

	go r.readLoop(conn)
	go r.pingLoop()
	return nil
}

// dial opens a connection and runs the init handshake on it.
func (r *Runtime) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := r.dialer.DialContext(ctx, r.cfg.Endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("ws: dial %s: %w (status %d)", r.cfg.Endpoint, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("ws: dial %s: %w", r.cfg.Endpoint, err)
	}

	if err := r.handshake(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// handshake sends the init frame and waits for the acknowledgment.
func (r *Runtime) handshake(ctx context.Context, conn *websocket.Conn) error {
	init, err := widget.NewFrame(widget.FrameInit, initPayload{
		WidgetUID: r.cfg.WidgetUID,
		SessionID: r.cfg.SessionID,
		Metadata:  r.cfg.Metadata,
	})
	if err != nil {
		return err
	}

	deadline := time.Now().Add(defaultHandshakeTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	conn.SetWriteDeadline(deadline)
	if err := conn.WriteJSON(init); err != nil {
		return fmt.Errorf("ws: send init: %w", err)
	}

	conn.SetReadDeadline(deadline)
	for {
		var f widget.Frame
		if err := conn.ReadJSON(&f); err != nil {
			return fmt.Errorf("ws: await init ack: %w", err)
		}
		switch f.Type {
		case widget.FrameInitAck:
			conn.SetReadDeadline(time.Time{})
			conn.SetWriteDeadline(time.Time{})
			return nil
		case widget.FrameError:
			var msg struct {
				Message string `json:"message"`
			}
			if derr := f.Decode(&msg); derr == nil && msg.Message != "" {
				return fmt.Errorf("ws: init rejected: %s", msg.Message)
			}
			return fmt.Errorf("ws: init rejected")
		default:
			// Frames before the ack are out of protocol, skip them.
		}
	}
}

// Frames returns the stream of frames emitted by the widget. The channel is
// closed when the session ends for good.
func (r *Runtime) Frames() <-chan widget.Frame {
	return r.frames
}

// Send delivers a frame to the widget.
func (r *Runtime) Send(ctx context.Context, f widget.Frame) error {
	select {
	case <-r.closeCh:
		return widget.ErrClosed
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return widget.ErrClosed
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	r.conn.SetWriteDeadline(deadline)
	return r.conn.WriteJSON(f)
}

// Close shuts down the session. Safe to call more than once.
func (r *Runtime) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.closeCh)

		r.mu.Lock()
		if r.conn != nil {
			err = r.conn.Close()
		}
		if !r.started {
			// No read loop to close the channel.
			close(r.frames)
		}
		r.mu.Unlock()
	})
	return err
}

// Retries reports how many reconnect attempts were made for this session.
func (r *Runtime) Retries() int {
	r.retryMu.Lock()
	defer r.retryMu.Unlock()
	return r.retries
}

// readLoop decodes frames off the connection until it fails, then hands off
// to reconnect. It owns the frames channel.
func (r *Runtime) readLoop(conn *websocket.Conn) {
	defer close(r.frames)

	for {
		for {
			var f widget.Frame
			if err := conn.ReadJSON(&f); err != nil {
				select {
				case <-r.closeCh:
					return
				default:
				}
				r.log.WithError(err).Warn("connection lost")
				break
			}
			select {
			case r.frames <- f:
			case <-r.closeCh:
				return
			}
		}

		conn = r.reconnect()
		if conn == nil {
			return
		}
	}
}

// reconnect re-dials with exponential backoff. It returns the fresh
// connection, or nil when the runtime is closed or the attempts are
// exhausted.
func (r *Runtime) reconnect() *websocket.Conn {
	for attempt := 0; attempt < r.backoff.MaxAttempts; attempt++ {
		delay := r.backoff.Delay(attempt)
		r.log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"delay":   delay,
		}).Info("reconnecting")

		select {
		case <-r.closeCh:
			return nil
		case <-time.After(delay):
		}

		n := r.bumpRetries()

		ctx, cancel := context.WithTimeout(context.Background(), r.dialer.HandshakeTimeout)
		conn, err := r.dial(ctx)
		cancel()
		if err != nil {
			r.log.WithError(err).Warn("reconnect failed")
			continue
		}

		// Close may have raced the dial; the fresh connection must not
		// outlive the runtime.
		r.mu.Lock()
		select {
		case <-r.closeCh:
			r.mu.Unlock()
			conn.Close()
			return nil
		default:
		}
		r.conn = conn
		r.mu.Unlock()

		r.emitRetryCount(n)
		r.log.WithField("retries", n).Info("reconnected")
		return conn
	}

	if r.backoff.MaxAttempts > 0 {
		r.log.Error("reconnect attempts exhausted")
	}
	return nil
}

func (r *Runtime) bumpRetries() int {
	r.retryMu.Lock()
	defer r.retryMu.Unlock()
	r.retries++
	return r.retries
}

// emitRetryCount surfaces the reconnect counter to subscribers as a state
// patch, so the state model reflects connection churn without waiting for
// the widget's next snapshot.
func (r *Runtime) emitRetryCount(n int) {
	patch := []map[string]any{
		{"op": "add", "path": "/connectRetries", "value": n},
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return
	}
	f := widget.Frame{Type: widget.FrameStateDelta, Payload: data}
	select {
	case r.frames <- f:
	case <-r.closeCh:
	}
}

// pingLoop keeps the connection alive. Write failures are left to the read
// loop, which notices the dead connection and reconnects.
func (r *Runtime) pingLoop() {
	if r.ping <= 0 {
		return
	}
	ticker := time.NewTicker(r.ping)
	defer ticker.Stop()

	for {
		select {
		case <-r.closeCh:
			return
		case <-ticker.C:
			r.mu.Lock()
			conn := r.conn
			r.mu.Unlock()
			if conn == nil {
				continue
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				r.log.WithError(err).Debug("ping failed")
			}
		}
	}
}

var _ widget.Runtime = (*Runtime)(nil)
