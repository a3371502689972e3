package event

import (
	"encoding/json"
	"fmt"
	"sync"

	jsonpatch "github.com/evanphx/json-patch/v5"

	widget "github.com/yourgpt/widget-sdk-go"
)

// SharedState holds the canonical state document mirrored from the widget
// together with its typed snapshot. It is safe for concurrent use.
//
// The widget pushes either full snapshots (replacing the document wholesale,
// last write wins) or RFC 6902 deltas applied against the current document.
// Reads always return copies; the stored snapshot is never mutated.
type SharedState struct {
	mu       sync.RWMutex
	doc      []byte
	snapshot widget.State
}

// NewSharedState creates a SharedState holding the zero snapshot.
func NewSharedState() *SharedState {
	doc, _ := json.Marshal(widget.State{})
	return &SharedState{doc: doc}
}

// Snapshot returns the current state snapshot.
func (s *SharedState) Snapshot() widget.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Doc returns a copy of the canonical state document.
func (s *SharedState) Doc() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]byte, len(s.doc))
	copy(out, s.doc)
	return out
}

// Set replaces the snapshot and re-derives the canonical document.
func (s *SharedState) Set(st widget.State) {
	doc, _ := json.Marshal(st)
	s.mu.Lock()
	s.doc = doc
	s.snapshot = st
	s.mu.Unlock()
}

// SetDoc replaces the canonical document verbatim and derives the snapshot
// from it. Returns the new snapshot.
func (s *SharedState) SetDoc(doc []byte) (widget.State, error) {
	var st widget.State
	if err := json.Unmarshal(doc, &st); err != nil {
		return widget.State{}, fmt.Errorf("event: decode state document: %w", err)
	}

	stored := make([]byte, len(doc))
	copy(stored, doc)

	s.mu.Lock()
	s.doc = stored
	s.snapshot = st
	s.mu.Unlock()
	return st, nil
}

// ApplyDelta applies an RFC 6902 patch to the canonical document and returns
// the resulting snapshot. The document is left unchanged when the patch does
// not apply.
func (s *SharedState) ApplyDelta(patch []byte) (widget.State, error) {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return widget.State{}, fmt.Errorf("event: decode state delta: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := p.Apply(s.doc)
	if err != nil {
		return widget.State{}, fmt.Errorf("event: apply state delta: %w", err)
	}

	var st widget.State
	if err := json.Unmarshal(doc, &st); err != nil {
		return widget.State{}, fmt.Errorf("event: decode patched state: %w", err)
	}

	s.doc = doc
	s.snapshot = st
	return st, nil
}
