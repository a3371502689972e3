// Package store provides in-memory conversation storage for the widget client.
package store

import (
	"sync"

	widget "github.com/yourgpt/widget-sdk-go"
)

// DefaultLimit is the number of messages kept when no limit is configured.
const DefaultLimit = 200

// MessageLog keeps the conversation history mirrored from the widget.
// It is safe for concurrent use. The log is bounded: once the limit is
// reached the oldest messages are dropped.
type MessageLog struct {
	mu       sync.RWMutex
	messages []widget.Message
	limit    int
}

// NewMessageLog creates a MessageLog bounded to limit messages.
// A non-positive limit means DefaultLimit.
func NewMessageLog(limit int) *MessageLog {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MessageLog{
		messages: make([]widget.Message, 0),
		limit:    limit,
	}
}

// Append adds messages to the log, dropping the oldest past the limit.
func (l *MessageLog) Append(msgs ...widget.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, msgs...)
	if over := len(l.messages) - l.limit; over > 0 {
		l.messages = append(l.messages[:0:0], l.messages[over:]...)
	}
}

// Messages returns a copy of all messages, oldest first.
func (l *MessageLog) Messages() []widget.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]widget.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of stored messages.
func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Clear removes all messages.
func (l *MessageLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = l.messages[:0]
}
