package widget

import (
	"maps"
	"time"
)

// DefaultInitTimeout bounds the initialization handshake. The hosted widget
// gives no completion guarantee, so a stuck init would otherwise leave the
// caller loading forever.
const DefaultInitTimeout = 30 * time.Second

// Config holds configuration for connecting to a hosted widget.
type Config struct {
	// WidgetUID identifies the widget project, as issued by the YourGPT
	// dashboard.
	WidgetUID string

	// Endpoint is the widget gateway URL. Used by the default WebSocket
	// runtime; ignored when Runtime is injected.
	Endpoint string

	// SessionID resumes an existing visitor session when set.
	SessionID string

	// Metadata is opaque session metadata forwarded to the widget on init
	// (visitor name, plan, locale).
	Metadata map[string]string

	// InitTimeout bounds the initialization handshake.
	// Zero means DefaultInitTimeout.
	InitTimeout time.Duration

	// Runtime overrides the runtime used to reach the hosted widget.
	// When nil, the process-wide default runtime factory is consulted.
	Runtime Runtime

	// OnError is invoked with the normalized error when initialization or a
	// runtime operation fails. Optional.
	OnError func(error)

	// OnInitialized is invoked once the widget handle is ready. Optional.
	OnInitialized func()
}

// InitTimeoutOrDefault returns the configured init timeout or DefaultInitTimeout.
func (c Config) InitTimeoutOrDefault() time.Duration {
	if c.InitTimeout > 0 {
		return c.InitTimeout
	}
	return DefaultInitTimeout
}

// Equal reports whether two configs identify the same widget session.
// Callbacks and the injected runtime are excluded: they do not change which
// widget the config points at. The binding layer uses this to decide whether
// a config update requires re-initialization.
func (c Config) Equal(other Config) bool {
	return c.WidgetUID == other.WidgetUID &&
		c.Endpoint == other.Endpoint &&
		c.SessionID == other.SessionID &&
		c.InitTimeout == other.InitTimeout &&
		maps.Equal(c.Metadata, other.Metadata)
}
