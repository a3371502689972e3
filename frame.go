package widget

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// FrameType identifies the kind of frame exchanged with the widget runtime.
type FrameType string

// Frames emitted by the widget.
const (
	// FrameInitAck acknowledges a successful init handshake.
	FrameInitAck FrameType = "init_ack"
	// FrameState carries a full state snapshot.
	FrameState FrameType = "state"
	// FrameStateDelta carries an RFC 6902 patch against the state document.
	FrameStateDelta FrameType = "state_delta"
	// FrameMessage carries a chat message (either direction).
	FrameMessage FrameType = "message"
	// FrameActionInvoke requests execution of a registered action.
	FrameActionInvoke FrameType = "action_invoke"
	// FrameConfirmDecision resolves a pending confirm request.
	FrameConfirmDecision FrameType = "confirm_decision"
	// FrameError reports a runtime-side failure.
	FrameError FrameType = "error"
)

// Frames sent by the SDK.
const (
	// FrameInit opens a session (widget UID, session metadata).
	FrameInit FrameType = "init"
	// FrameActionResult returns the outcome of an action invocation.
	FrameActionResult FrameType = "action_result"
	// FrameConfirmRequest asks the widget to render a confirmation dialog.
	FrameConfirmRequest FrameType = "confirm_request"
	// FrameOpen expands the chat panel.
	FrameOpen FrameType = "open"
	// FrameClose collapses the chat panel.
	FrameClose FrameType = "close"
	// FrameShow makes the launcher visible.
	FrameShow FrameType = "show"
	// FrameHide hides the launcher.
	FrameHide FrameType = "hide"
)

// Frame is the envelope exchanged with the widget runtime. The wire protocol
// itself belongs to the hosted widget; the SDK defines only this envelope and
// the frame types it consumes or produces.
type Frame struct {
	// Type identifies the kind of frame.
	Type FrameType `json:"type"`
	// ID uniquely identifies the frame for request/response correlation.
	ID string `json:"id,omitempty"`
	// Payload is the frame body, opaque to the envelope.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewFrame creates a frame with a fresh ID and a JSON-encoded payload.
// A nil payload produces a frame with no body.
func NewFrame(t FrameType, payload any) (Frame, error) {
	f := Frame{Type: t, ID: uuid.NewString()}
	if payload == nil {
		return f, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("widget: encode %s frame: %w", t, err)
	}
	f.Payload = data
	return f, nil
}

// Decode unmarshals the frame payload into v.
func (f Frame) Decode(v any) error {
	if len(f.Payload) == 0 {
		return fmt.Errorf("widget: empty payload in %s frame", f.Type)
	}
	if err := json.Unmarshal(f.Payload, v); err != nil {
		return fmt.Errorf("widget: decode %s frame: %w", f.Type, err)
	}
	return nil
}
