package bind

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	widget "github.com/yourgpt/widget-sdk-go"
	"github.com/yourgpt/widget-sdk-go/client"
)

// fakeRuntime is an in-memory widget runtime for binding tests.
type fakeRuntime struct {
	mu        sync.Mutex
	initCalls int
	initErr   error
	initDelay time.Duration
	frames    chan widget.Frame
	closed    int
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{frames: make(chan widget.Frame, 16)}
}

func (r *fakeRuntime) Init(ctx context.Context, cfg widget.Config) error {
	r.mu.Lock()
	r.initCalls++
	err := r.initErr
	delay := r.initDelay
	r.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (r *fakeRuntime) Frames() <-chan widget.Frame { return r.frames }

func (r *fakeRuntime) Send(ctx context.Context, f widget.Frame) error { return nil }

func (r *fakeRuntime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed == 0 {
		close(r.frames)
	}
	r.closed++
	return nil
}

func (r *fakeRuntime) push(t *testing.T, st widget.State) {
	t.Helper()
	f, err := widget.NewFrame(widget.FrameState, st)
	require.NoError(t, err)
	r.frames <- f
}

func (r *fakeRuntime) closeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func TestBindingMount(t *testing.T) {
	t.Run("successful mount transitions loading to ready", func(t *testing.T) {
		rt := newFakeRuntime()
		b := New(widget.Config{WidgetUID: "w1"}, client.WithRuntime(rt))

		assert.Equal(t, Snapshot{}, b.Snapshot(), "uninitialized before mount")

		b.Mount(context.Background())
		defer b.Unmount()

		require.Eventually(t, func() bool {
			return b.Snapshot().Initialized
		}, time.Second, 5*time.Millisecond)

		snap := b.Snapshot()
		assert.False(t, snap.Loading)
		assert.NoError(t, snap.Err)
		assert.NotNil(t, snap.Handle)
	})

	t.Run("failing mount transitions loading to errored", func(t *testing.T) {
		rt := newFakeRuntime()
		rt.initErr = errors.New("gateway down")
		b := New(widget.Config{WidgetUID: "w1"}, client.WithRuntime(rt))

		b.Mount(context.Background())

		require.Eventually(t, func() bool {
			return b.Snapshot().Err != nil
		}, time.Second, 5*time.Millisecond)

		snap := b.Snapshot()
		assert.False(t, snap.Loading)
		assert.False(t, snap.Initialized)
		assert.Nil(t, snap.Handle)

		var werr *widget.Error
		assert.ErrorAs(t, snap.Err, &werr)
	})

	t.Run("state arriving while mounting is not lost", func(t *testing.T) {
		// The frame is already buffered when Mount starts, so the client
		// dispatches it concurrently with the binding attaching its
		// subscription. The snapshot must land either way.
		for i := 0; i < 20; i++ {
			rt := newFakeRuntime()
			want := widget.State{Open: true, Connected: true, MessageCount: i + 1}
			rt.push(t, want)

			b := New(widget.Config{WidgetUID: "w1"}, client.WithRuntime(rt))
			b.Mount(context.Background())

			require.Eventually(t, func() bool {
				return b.Snapshot().State == want
			}, time.Second, time.Millisecond)
			b.Unmount()
		}
	})

	t.Run("snapshots flow into the binding verbatim", func(t *testing.T) {
		rt := newFakeRuntime()
		b := New(widget.Config{WidgetUID: "w1"}, client.WithRuntime(rt))
		b.Mount(context.Background())
		defer b.Unmount()

		require.Eventually(t, func() bool {
			return b.Snapshot().Initialized
		}, time.Second, 5*time.Millisecond)

		want := widget.State{Open: true, Visible: true, Connected: true, Loaded: true, MessageCount: 7}
		rt.push(t, want)

		require.Eventually(t, func() bool {
			return b.Snapshot().State == want
		}, time.Second, 5*time.Millisecond)
	})
}

func TestBindingUnmount(t *testing.T) {
	t.Run("releases the subscription and stops updates", func(t *testing.T) {
		rt := newFakeRuntime()
		b := New(widget.Config{WidgetUID: "w1"}, client.WithRuntime(rt))
		b.Mount(context.Background())

		require.Eventually(t, func() bool {
			return b.Snapshot().Initialized
		}, time.Second, 5*time.Millisecond)

		b.Unmount()

		snap := b.Snapshot()
		assert.False(t, snap.Initialized)
		assert.False(t, snap.Loading)
		assert.Nil(t, snap.Handle)
		assert.Equal(t, widget.State{}, snap.State)
		assert.Equal(t, 1, rt.closeCount())

		// Unmount again: still exactly one runtime close.
		b.Unmount()
		assert.Equal(t, 1, rt.closeCount())
	})

	t.Run("unmount during pending init attaches nothing", func(t *testing.T) {
		rt := newFakeRuntime()
		rt.initDelay = 50 * time.Millisecond
		b := New(widget.Config{WidgetUID: "w1"}, client.WithRuntime(rt))

		b.Mount(context.Background())
		b.Unmount()

		// The late connect result must be discarded and its handle closed.
		require.Eventually(t, func() bool {
			return rt.closeCount() == 1
		}, time.Second, 5*time.Millisecond)
		snap := b.Snapshot()
		assert.False(t, snap.Initialized)
		assert.Nil(t, snap.Handle)
	})
}

func TestBindingSetConfig(t *testing.T) {
	t.Run("re-initializes on a different session", func(t *testing.T) {
		rt := newFakeRuntime()
		b := New(widget.Config{WidgetUID: "w1"}, client.WithRuntime(rt))
		b.Mount(context.Background())
		defer b.Unmount()

		require.Eventually(t, func() bool {
			return b.Snapshot().Initialized
		}, time.Second, 5*time.Millisecond)

		rt2 := newFakeRuntime()
		b.mu.Lock()
		b.opts = []client.Option{client.WithRuntime(rt2)}
		b.mu.Unlock()

		b.SetConfig(context.Background(), widget.Config{WidgetUID: "w2"})

		require.Eventually(t, func() bool {
			rt2.mu.Lock()
			defer rt2.mu.Unlock()
			return rt2.initCalls == 1
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, 1, rt.closeCount(), "previous handle released")
	})

	t.Run("same session is a no-op", func(t *testing.T) {
		rt := newFakeRuntime()
		b := New(widget.Config{WidgetUID: "w1"}, client.WithRuntime(rt))
		b.Mount(context.Background())
		defer b.Unmount()

		require.Eventually(t, func() bool {
			return b.Snapshot().Initialized
		}, time.Second, 5*time.Millisecond)

		b.SetConfig(context.Background(), widget.Config{WidgetUID: "w1"})

		rt.mu.Lock()
		defer rt.mu.Unlock()
		assert.Equal(t, 1, rt.initCalls)
	})
}

func TestBindingWatch(t *testing.T) {
	rt := newFakeRuntime()
	b := New(widget.Config{WidgetUID: "w1"}, client.WithRuntime(rt))

	var (
		mu    sync.Mutex
		snaps []Snapshot
	)
	stop := b.Watch(func(s Snapshot) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})
	defer stop()

	b.Mount(context.Background())
	defer b.Unmount()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, s := range snaps {
			if s.Initialized {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, snaps[0].Loading, "first transition is loading")
}
