package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"synergy-backend/internal/models"
)

// TranscriptStore appends chat turns. Satisfied by *repository.ChatMessageRepo.
type TranscriptStore interface {
	Append(ctx context.Context, turn models.Turn) (time.Time, error)
}

// EventPublisher fans an event out to a user's other sessions.
type EventPublisher interface {
	PublishToUser(ctx context.Context, userID uuid.UUID, msg models.WSMessage) error
}

// RecordOutcome reports what happened to one transcript write. Skipped means
// there was no identity to attribute the turn to.
type RecordOutcome struct {
	Skipped   bool
	Err       error
	CreatedAt time.Time
}

func (o RecordOutcome) OK() bool { return !o.Skipped && o.Err == nil }

type TranscriptRecorder struct {
	store     TranscriptStore
	publisher EventPublisher
	timeout   time.Duration
	logger    *zap.Logger
}

// NewTranscriptRecorder accepts a nil publisher, in which case no events are sent.
func NewTranscriptRecorder(store TranscriptStore, publisher EventPublisher, timeout time.Duration, logger *zap.Logger) *TranscriptRecorder {
	return &TranscriptRecorder{store: store, publisher: publisher, timeout: timeout, logger: logger}
}

// Record appends one turn under the write timeout. It never panics or
// returns an error; the caller decides what to do with the outcome.
func (r *TranscriptRecorder) Record(ctx context.Context, turn models.Turn) RecordOutcome {
	if turn.UserID == uuid.Nil {
		return RecordOutcome{Skipped: true}
	}

	wctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	createdAt, err := r.store.Append(wctx, turn)
	if err != nil {
		return RecordOutcome{Err: err}
	}

	if !turn.FromUser && r.publisher != nil {
		r.publish(wctx, turn, createdAt)
	}
	return RecordOutcome{CreatedAt: createdAt}
}

func (r *TranscriptRecorder) publish(ctx context.Context, turn models.Turn, createdAt time.Time) {
	msg := models.WSMessage{
		Type: models.WSTypeChatMessage,
		Payload: models.ChatMessageEvent{
			Message:   turn.Message,
			FromUser:  turn.FromUser,
			CreatedAt: createdAt,
		},
	}
	if err := r.publisher.PublishToUser(ctx, turn.UserID, msg); err != nil {
		r.logger.Warn("transcript: failed to publish chat event",
			zap.String("user_id", turn.UserID.String()),
			zap.Error(err),
		)
	}
}
