package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation thread.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewHumanMessage builds a user-authored turn.
func NewHumanMessage(content string, at time.Time) Message {
	return Message{Role: RoleHuman, Content: content, CreatedAt: at}
}

// NewAssistantMessage builds an assistant-authored turn.
func NewAssistantMessage(content string, at time.Time) Message {
	return Message{Role: RoleAssistant, Content: content, CreatedAt: at}
}
