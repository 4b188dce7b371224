package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint. IncludeContext is a
// pointer so an omitted field can default to true.
type ChatRequest struct {
	Message             string        `json:"message"`
	IncludeContext      *bool         `json:"include_context"`
	ConversationHistory []ChatMessage `json:"conversation_history"`
}

// ChatInput is the transport-independent form of a chat request.
type ChatInput struct {
	Message        string
	IncludeContext bool
	History        []ChatMessage
	Authorization  string
}

// ChatResult is what the orchestrator hands back on success.
type ChatResult struct {
	Response    string
	ContextUsed bool
	Timestamp   time.Time
}

type ChatResponse struct {
	Success     bool      `json:"success"`
	Response    string    `json:"response"`
	ContextUsed bool      `json:"context_used"`
	Timestamp   time.Time `json:"timestamp"`
}

// Turn is one row appended to the transcript.
type Turn struct {
	UserID   uuid.UUID
	Message  string
	FromUser bool
	Context  *UserContext
}
