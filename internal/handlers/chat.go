package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"synergy-backend/internal/models"
)

type chatService interface {
	Chat(ctx context.Context, in models.ChatInput) (*models.ChatResult, error)
}

type ChatHandler struct {
	chat   chatService
	logger *zap.Logger
}

func NewChatHandler(chat chatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	includeContext := true
	if req.IncludeContext != nil {
		includeContext = *req.IncludeContext
	}

	result, err := h.chat.Chat(r.Context(), models.ChatInput{
		Message:        req.Message,
		IncludeContext: includeContext,
		History:        req.ConversationHistory,
		Authorization:  r.Header.Get("Authorization"),
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Success:     true,
		Response:    result.Response,
		ContextUsed: result.ContextUsed,
		Timestamp:   result.Timestamp,
	})
}
