package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"synergy-backend/internal/middleware"
	"synergy-backend/internal/models"
)

// IdentityResolver turns an Authorization header into a user id. Satisfied
// by *middleware.TokenAuth.
type IdentityResolver interface {
	Resolve(requireIdentity bool, authorization string) (uuid.UUID, error)
}

// ModelInvoker produces the assistant reply. Satisfied by *GeminiService.
type ModelInvoker interface {
	Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, message string) (string, error)
}

type ChatService struct {
	identity   IdentityResolver
	aggregator *ContextAggregator
	model      ModelInvoker
	recorder   *TranscriptRecorder
	location   *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

func NewChatService(
	identity IdentityResolver,
	aggregator *ContextAggregator,
	model ModelInvoker,
	recorder *TranscriptRecorder,
	location *time.Location,
	logger *zap.Logger,
) *ChatService {
	if location == nil {
		location = time.UTC
	}
	return &ChatService{
		identity:   identity,
		aggregator: aggregator,
		model:      model,
		recorder:   recorder,
		location:   location,
		now:        time.Now,
		logger:     logger,
	}
}

// Chat runs one request through validation, identity, context, prompt,
// transcript and model call. Only the typed errors in errors.go are returned
// for expected failures.
func (s *ChatService) Chat(ctx context.Context, in models.ChatInput) (*models.ChatResult, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, &ValidationError{Message: "Message is required"}
	}
	if err := validateHistory(in.History); err != nil {
		return nil, err
	}

	userID, err := s.identity.Resolve(in.IncludeContext, in.Authorization)
	if err != nil {
		if errors.Is(err, middleware.ErrMissingCredential) {
			return nil, &AuthError{Message: "Authentication required when include_context is true"}
		}
		return nil, &AuthError{Message: "Invalid authentication"}
	}

	// From here on a client disconnect must not abort the model call or the
	// transcript writes.
	work := context.WithoutCancel(ctx)
	asOf := s.now().In(s.location)

	contextUsed := in.IncludeContext && userID != uuid.Nil
	var uc models.UserContext
	if contextUsed {
		uc = s.aggregator.Aggregate(work, userID, asOf)
	}

	prompt := BuildSystemPrompt(uc)

	var snapshot *models.UserContext
	if contextUsed {
		snapshot = &uc
	}
	s.logOutcome("user", userID, s.recorder.Record(work, models.Turn{
		UserID:   userID,
		Message:  in.Message,
		FromUser: true,
		Context:  snapshot,
	}))

	reply, err := s.model.Complete(work, prompt, in.History, in.Message)
	if err != nil {
		s.logger.Error("chat: model call failed",
			zap.String("user_id", userID.String()),
			zap.Bool("context_used", contextUsed),
			zap.Error(err),
		)
		return nil, err
	}

	s.logOutcome("assistant", userID, s.recorder.Record(work, models.Turn{
		UserID:   userID,
		Message:  reply,
		FromUser: false,
	}))

	return &models.ChatResult{
		Response:    reply,
		ContextUsed: contextUsed,
		Timestamp:   s.now().UTC(),
	}, nil
}

func (s *ChatService) logOutcome(turn string, userID uuid.UUID, outcome RecordOutcome) {
	switch {
	case outcome.Skipped:
		s.logger.Debug("transcript: write skipped, no identity", zap.String("turn", turn))
	case outcome.Err != nil:
		s.logger.Warn("transcript: write failed",
			zap.String("turn", turn),
			zap.String("user_id", userID.String()),
			zap.Error(outcome.Err),
		)
	}
}

func validateHistory(history []models.ChatMessage) error {
	for _, msg := range history {
		if msg.Role != models.RoleUser && msg.Role != models.RoleAssistant {
			return &ValidationError{Message: "Invalid conversation history"}
		}
	}
	return nil
}
