package models

import (
	"time"

	"github.com/google/uuid"
)

type MotivationalQuote struct {
	ID               uuid.UUID `json:"id,omitempty"`
	QuoteText        string    `json:"quote_text"`
	Theme            string    `json:"theme"`
	RelevanceContext string    `json:"relevance_context"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// GenerateQuotesRequest mirrors the body of POST /motivational-quotes; every
// field is optional.
type GenerateQuotesRequest struct {
	Context         string `json:"context"`
	Count           int    `json:"count"`
	Theme           string `json:"theme"`
	ReplaceExisting bool   `json:"replace_existing"`
}

type GenerateQuotesResult struct {
	GeneratedCount int      `json:"generated_count"`
	InsertedCount  int      `json:"inserted_count"`
	Context        string   `json:"context"`
	Theme          string   `json:"theme"`
	QuotesPreview  []string `json:"quotes_preview"`
}
