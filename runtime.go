package widget

import (
	"context"
	"sync"
)

// Runtime is the injected dependency through which the SDK reaches the
// hosted widget. The real implementation talks to the widget gateway; tests
// substitute a fake. Isolating the runtime behind this interface keeps the
// widget's process-wide integration contract out of the rest of the SDK.
type Runtime interface {
	// Init performs the one-time session handshake. It must be called before
	// any other method and is never retried by the SDK.
	Init(ctx context.Context, cfg Config) error

	// Frames returns the stream of frames emitted by the widget. The channel
	// is closed when the runtime shuts down.
	Frames() <-chan Frame

	// Send delivers a frame to the widget.
	Send(ctx context.Context, f Frame) error

	// Close releases the session. Safe to call more than once.
	Close() error
}

// RuntimeFactory constructs a Runtime for a config. The default WebSocket
// runtime registers a factory here; hosts can install their own.
type RuntimeFactory func(cfg Config) (Runtime, error)

var (
	runtimeMu      sync.RWMutex
	runtimeFactory RuntimeFactory
)

// RegisterRuntime installs the process-wide default runtime factory. This
// mirrors the hosted widget's globally registered entry point, kept behind
// one mutex-guarded slot so tests can swap or clear it. Passing nil clears
// the factory.
func RegisterRuntime(f RuntimeFactory) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	runtimeFactory = f
}

// DefaultRuntime constructs a runtime from the registered factory.
// Returns ErrRuntimeUnavailable when no factory is registered; the external
// widget is not contacted in that case.
func DefaultRuntime(cfg Config) (Runtime, error) {
	runtimeMu.RLock()
	f := runtimeFactory
	runtimeMu.RUnlock()

	if f == nil {
		return nil, ErrRuntimeUnavailable
	}
	return f(cfg)
}
