package widget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopRuntime struct{}

func (nopRuntime) Init(context.Context, Config) error { return nil }
func (nopRuntime) Frames() <-chan Frame               { return nil }
func (nopRuntime) Send(context.Context, Frame) error  { return nil }
func (nopRuntime) Close() error                       { return nil }

func TestDefaultRuntime(t *testing.T) {
	t.Run("fails without a registered factory", func(t *testing.T) {
		RegisterRuntime(nil)

		_, err := DefaultRuntime(Config{})
		assert.ErrorIs(t, err, ErrRuntimeUnavailable)
	})

	t.Run("uses the registered factory", func(t *testing.T) {
		calls := 0
		RegisterRuntime(func(cfg Config) (Runtime, error) {
			calls++
			return nopRuntime{}, nil
		})
		defer RegisterRuntime(nil)

		rt, err := DefaultRuntime(Config{WidgetUID: "w1"})
		require.NoError(t, err)
		assert.NotNil(t, rt)
		assert.Equal(t, 1, calls)
	})
}

func TestConfigEqual(t *testing.T) {
	base := Config{WidgetUID: "w1", Endpoint: "wss://x", SessionID: "s1"}

	t.Run("ignores callbacks and runtime", func(t *testing.T) {
		other := base
		other.OnError = func(error) {}
		other.Runtime = nopRuntime{}
		assert.True(t, base.Equal(other))
	})

	t.Run("differs on identity fields", func(t *testing.T) {
		other := base
		other.SessionID = "s2"
		assert.False(t, base.Equal(other))
	})

	t.Run("compares metadata", func(t *testing.T) {
		a := base
		a.Metadata = map[string]string{"plan": "pro"}
		b := base
		b.Metadata = map[string]string{"plan": "free"}
		assert.False(t, a.Equal(b))

		b.Metadata["plan"] = "pro"
		assert.True(t, a.Equal(b))
	})
}
