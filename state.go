package widget

// State is a point-in-time snapshot of the hosted widget's visibility and
// connectivity. The widget owns this state; the SDK only mirrors it. Each
// state event replaces the previous snapshot wholesale (last write wins),
// snapshots are never mutated in place.
type State struct {
	// Open reports whether the chat panel is expanded.
	Open bool `json:"open"`
	// Visible reports whether the widget launcher is shown on the page.
	Visible bool `json:"visible"`
	// Connected reports whether the widget has a live session with its backend.
	Connected bool `json:"connected"`
	// Loaded reports whether the widget finished bootstrapping.
	Loaded bool `json:"loaded"`
	// MessageCount is the number of messages in the current conversation.
	MessageCount int `json:"messageCount"`
	// ConnectRetries counts reconnection attempts for the current session.
	ConnectRetries int `json:"connectRetries"`
}
