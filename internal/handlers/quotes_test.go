package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"synergy-backend/internal/models"
	"synergy-backend/internal/services"
)

type stubQuoteService struct {
	gotReq   models.GenerateQuotesRequest
	gotTheme string
	gotLimit int
	err      error
}

func (s *stubQuoteService) Generate(ctx context.Context, req models.GenerateQuotesRequest) (*models.GenerateQuotesResult, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.GenerateQuotesResult{
		GeneratedCount: 2,
		InsertedCount:  2,
		Context:        "Awal Semester Ganjil 2025/2026",
		Theme:          "awal-semester",
		QuotesPreview:  []string{"A", "B"},
	}, nil
}

func (s *stubQuoteService) List(ctx context.Context, theme string, limit int) ([]models.MotivationalQuote, string, error) {
	s.gotTheme = theme
	s.gotLimit = limit
	if theme == "" {
		theme = "UTS"
	}
	return nil, theme, s.err
}

func TestQuoteHandler_Generate(t *testing.T) {
	svc := &stubQuoteService{}
	h := NewQuoteHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/motivational-quotes", strings.NewReader(`{"count":5,"replace_existing":true}`))
	rr := httptest.NewRecorder()
	h.Generate(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, svc.gotReq.Count)
	assert.True(t, svc.gotReq.ReplaceExisting)

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["generated_count"])
	assert.Equal(t, float64(2), body["inserted_count"])
	assert.Equal(t, "awal-semester", body["theme"])
	assert.Len(t, body["quotes_preview"], 2)
}

func TestQuoteHandler_GenerateAcceptsEmptyOrBadBody(t *testing.T) {
	for _, raw := range []string{"", "not json"} {
		svc := &stubQuoteService{}
		h := NewQuoteHandler(svc, zap.NewNop())

		rr := httptest.NewRecorder()
		h.Generate(rr, httptest.NewRequest(http.MethodPost, "/motivational-quotes", strings.NewReader(raw)))

		assert.Equal(t, http.StatusOK, rr.Code, "body %q", raw)
		assert.Equal(t, models.GenerateQuotesRequest{}, svc.gotReq)
	}
}

func TestQuoteHandler_GenerateErrors(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{&services.ParseError{Message: "Failed to parse generated quotes"}, "Failed to parse generated quotes"},
		{&services.UpstreamError{Message: "Gemini API error"}, "Gemini API error"},
		{errors.New("failed to insert quotes: pg down"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		h := NewQuoteHandler(&stubQuoteService{err: tc.err}, zap.NewNop())
		rr := httptest.NewRecorder()
		h.Generate(rr, httptest.NewRequest(http.MethodPost, "/motivational-quotes", nil))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, tc.message, decodeBody(t, rr)["error"])
	}
}

func TestQuoteHandler_List(t *testing.T) {
	svc := &stubQuoteService{}
	h := NewQuoteHandler(svc, zap.NewNop())

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/motivational-quotes?theme=libur&limit=7", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "libur", svc.gotTheme)
	assert.Equal(t, 7, svc.gotLimit)

	body := decodeBody(t, rr)
	assert.Equal(t, "libur", body["theme"])
	assert.Equal(t, []interface{}{}, body["quotes"])
}
