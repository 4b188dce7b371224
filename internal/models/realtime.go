package models

import "time"

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const WSTypeChatMessage = "chat_message"

// ChatMessageEvent tells a user's other sessions that the transcript grew.
type ChatMessageEvent struct {
	Message   string    `json:"message"`
	FromUser  bool      `json:"is_from_user"`
	CreatedAt time.Time `json:"created_at"`
}

// API error envelope shared by every endpoint.
type ErrorResponse struct {
	Success   bool       `json:"success"`
	Error     string     `json:"error"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
