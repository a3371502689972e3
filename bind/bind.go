// Package bind provides the reactive binding layer for host UI scopes.
//
// A Binding ties a widget session to a UI scope's lifecycle: Mount starts
// initialization, state snapshots flow into the binding as they arrive, and
// Unmount releases the subscription and the handle. The exposed Snapshot
// mirrors {handle, initialized, loading, error, state} so dependent UI can
// re-render from a single value.
package bind

import (
	"context"
	"sync"

	widget "github.com/yourgpt/widget-sdk-go"
	"github.com/yourgpt/widget-sdk-go/client"
)

// Snapshot is the binding's exposed value at a point in time.
type Snapshot struct {
	// Handle is the connected client, nil until ready.
	Handle *client.Client
	// Initialized is true once the widget handle is ready.
	Initialized bool
	// Loading is true while initialization is in flight.
	Loading bool
	// Err holds the initialization error, nil otherwise.
	Err error
	// State is the latest widget state snapshot.
	State widget.State
}

// Binding owns one widget subscription for the lifetime of a UI scope.
// The lifecycle is uninitialized → loading → (ready | errored); ready
// re-enters loading only through Unmount/Mount or a config change.
// All methods are safe for concurrent use.
type Binding struct {
	mu       sync.RWMutex
	cfg      widget.Config
	opts     []client.Option
	gen      int
	handle   *client.Client
	unsub    func()
	loading  bool
	ready    bool
	err      error
	state    widget.State
	watchers map[int]func(Snapshot)
	nextID   int
}

// New creates an unmounted Binding for the given config. The options are
// passed through to client.Connect on every mount.
func New(cfg widget.Config, opts ...client.Option) *Binding {
	return &Binding{
		cfg:      cfg,
		opts:     opts,
		watchers: make(map[int]func(Snapshot)),
	}
}

// Mount enters the scope: clears any previous error, flags loading, and
// starts initialization. Mount does not block; watch the snapshot for the
// transition to ready or errored. Mounting an already-mounted binding
// restarts it.
func (b *Binding) Mount(ctx context.Context) {
	b.mu.Lock()
	prev := b.teardownLocked()
	b.gen++
	gen := b.gen
	b.loading = true
	b.err = nil
	cfg := b.cfg
	opts := b.opts
	b.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	b.notify()

	go b.connect(ctx, gen, cfg, opts)
}

// connect performs the asynchronous initialization for one mount generation.
// If the scope was torn down meanwhile, the fresh handle is closed and
// nothing is attached.
func (b *Binding) connect(ctx context.Context, gen int, cfg widget.Config, opts []client.Option) {
	h, err := client.Connect(ctx, cfg, opts...)

	b.mu.Lock()
	if b.gen != gen {
		b.mu.Unlock()
		if h != nil {
			h.Close()
		}
		return
	}

	b.loading = false
	if err != nil {
		b.err = err
		b.mu.Unlock()
		b.notify()
		return
	}

	b.handle = h
	b.ready = true
	// Subscribe before seeding so a snapshot dispatched in between is not
	// missed: it queues on the lock and lands after the seed.
	b.unsub = h.OnStateChange(func(st widget.State) {
		b.mu.Lock()
		if b.handle != h {
			b.mu.Unlock()
			return
		}
		b.state = st
		b.mu.Unlock()
		b.notify()
	})
	b.state = h.State()
	b.mu.Unlock()
	b.notify()
}

// Unmount exits the scope: the subscription is released if one exists and
// the handle is closed. Safe to call on a binding that never mounted.
func (b *Binding) Unmount() {
	b.mu.Lock()
	b.gen++
	h := b.teardownLocked()
	b.mu.Unlock()

	if h != nil {
		h.Close()
	}
	b.notify()
}

// teardownLocked resets the binding to uninitialized and returns the handle
// to close, if any. Caller holds b.mu.
func (b *Binding) teardownLocked() *client.Client {
	if b.unsub != nil {
		b.unsub()
		b.unsub = nil
	}
	h := b.handle
	b.handle = nil
	b.ready = false
	b.loading = false
	b.err = nil
	b.state = widget.State{}
	return h
}

// SetConfig swaps the configuration. When the new config identifies a
// different widget session the binding re-initializes; otherwise it is a
// no-op.
func (b *Binding) SetConfig(ctx context.Context, cfg widget.Config) {
	b.mu.Lock()
	if b.cfg.Equal(cfg) {
		b.cfg = cfg
		b.mu.Unlock()
		return
	}
	b.cfg = cfg
	mounted := b.loading || b.ready
	b.mu.Unlock()

	if mounted {
		b.Mount(ctx)
	}
}

// Snapshot returns the binding's current exposed value.
func (b *Binding) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{
		Handle:      b.handle,
		Initialized: b.ready,
		Loading:     b.loading,
		Err:         b.err,
		State:       b.state,
	}
}

// Watch registers a function called with a fresh snapshot after every
// binding transition. The returned stop function removes the watcher and is
// idempotent.
func (b *Binding) Watch(fn func(Snapshot)) (stop func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.watchers, id)
			b.mu.Unlock()
		})
	}
}

// notify calls every watcher with the current snapshot.
func (b *Binding) notify() {
	b.mu.RLock()
	snap := Snapshot{
		Handle:      b.handle,
		Initialized: b.ready,
		Loading:     b.loading,
		Err:         b.err,
		State:       b.state,
	}
	fns := make([]func(Snapshot), 0, len(b.watchers))
	for _, fn := range b.watchers {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}
