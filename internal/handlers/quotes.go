package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"synergy-backend/internal/models"
)

type quoteService interface {
	Generate(ctx context.Context, req models.GenerateQuotesRequest) (*models.GenerateQuotesResult, error)
	List(ctx context.Context, theme string, limit int) ([]models.MotivationalQuote, string, error)
}

type QuoteHandler struct {
	quotes quoteService
	logger *zap.Logger
}

func NewQuoteHandler(quotes quoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, logger: logger}
}

type generateQuotesResponse struct {
	Success bool `json:"success"`
	*models.GenerateQuotesResult
}

type listQuotesResponse struct {
	Success bool                       `json:"success"`
	Theme   string                     `json:"theme"`
	Quotes  []models.MotivationalQuote `json:"quotes"`
}

// Generate handles POST /motivational-quotes. Every body field is optional;
// an empty or unreadable body means "use the detected period".
func (h *QuoteHandler) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var req models.GenerateQuotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Debug("quotes: ignoring unreadable body", zap.Error(err))
		req = models.GenerateQuotesRequest{}
	}

	result, err := h.quotes.Generate(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, generateQuotesResponse{Success: true, GenerateQuotesResult: result})
}

// List handles GET /motivational-quotes?theme=&limit=.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	quotes, theme, err := h.quotes.List(r.Context(), r.URL.Query().Get("theme"), limit)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	if quotes == nil {
		quotes = []models.MotivationalQuote{}
	}

	writeJSON(w, http.StatusOK, listQuotesResponse{Success: true, Theme: theme, Quotes: quotes})
}
