package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"synergy-backend/internal/models"
)

type QuoteRepo struct {
	pool *pgxpool.Pool
}

func NewQuoteRepo(pool *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{pool: pool}
}

// DeactivateTheme marks every active quote of a theme inactive and returns
// how many rows changed.
func (r *QuoteRepo) DeactivateTheme(ctx context.Context, theme string) (int64, error) {
	tag, err := r.pool.Exec(ctx, "UPDATE motivational_quotes SET is_active = FALSE WHERE theme = $1 AND is_active = TRUE", theme)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InsertBatch stores all quotes in one transaction and fills in ID and CreatedAt.
func (r *QuoteRepo) InsertBatch(ctx context.Context, quotes []models.MotivationalQuote) ([]models.MotivationalQuote, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin quote insert: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := make([]models.MotivationalQuote, 0, len(quotes))
	for _, q := range quotes {
		err := tx.QueryRow(ctx, `
			INSERT INTO motivational_quotes (quote_text, theme, relevance_context, is_active)
			VALUES ($1, $2, $3, TRUE)
			RETURNING id, created_at
		`, q.QuoteText, q.Theme, q.RelevanceContext).Scan(&q.ID, &q.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert quote: %w", err)
		}
		q.IsActive = true
		inserted = append(inserted, q)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quotes: %w", err)
	}
	return inserted, nil
}

func (r *QuoteRepo) ListActive(ctx context.Context, theme string, limit int) ([]models.MotivationalQuote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quote_text, theme, relevance_context, is_active, created_at
		FROM motivational_quotes
		WHERE is_active = TRUE
		  AND ($1 = '' OR theme = $1)
		ORDER BY created_at DESC, id
		LIMIT $2
	`, theme, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.MotivationalQuote, error) {
		var q models.MotivationalQuote
		err := row.Scan(&q.ID, &q.QuoteText, &q.Theme, &q.RelevanceContext, &q.IsActive, &q.CreatedAt)
		return q, err
	})
}
