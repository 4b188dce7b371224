package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"synergy-backend/internal/models"
)

type ChatMessageRepo struct {
	pool *pgxpool.Pool
}

func NewChatMessageRepo(pool *pgxpool.Pool) *ChatMessageRepo {
	return &ChatMessageRepo{pool: pool}
}

// Append inserts one transcript row and returns its creation time. A nil
// context snapshot is stored as SQL NULL.
func (r *ChatMessageRepo) Append(ctx context.Context, turn models.Turn) (time.Time, error) {
	var snapshot []byte
	if turn.Context != nil {
		b, err := json.Marshal(turn.Context)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to encode context snapshot: %w", err)
		}
		snapshot = b
	}

	var createdAt time.Time
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat_messages (id, user_id, message, is_from_user, user_context)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, uuid.New(), turn.UserID, turn.Message, turn.FromUser, snapshot).Scan(&createdAt)
	return createdAt, err
}
