package widget

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is a message sent by the site visitor (or the host app on
	// their behalf).
	RoleUser Role = "user"
	// RoleAssistant is a message from the widget's AI.
	RoleAssistant Role = "assistant"
	// RoleSystem is a message injected by the widget itself
	// (connection notices, handoff banners).
	RoleSystem Role = "system"
)

// Message is a single chat message exchanged through the widget.
type Message struct {
	// ID uniquely identifies the message.
	ID string `json:"id"`
	// Role identifies the author.
	Role Role `json:"role"`
	// Content is the message text.
	Content string `json:"content"`
	// CreatedAt is when the message was produced.
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserMessage creates a user message with a fresh ID and timestamp.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with a fresh ID and timestamp.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
