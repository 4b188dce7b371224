package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"synergy-backend/internal/models"
)

const conversationMarker = "=== PERCAKAPAN ==="

type GeminiService struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewGeminiService creates the client when a key is configured. Without a
// key the service still constructs; every call then fails with ConfigError.
func NewGeminiService(apiKey, modelName string, timeout time.Duration, logger *zap.Logger) (*GeminiService, error) {
	s := &GeminiService{modelName: modelName, timeout: timeout, logger: logger}
	if apiKey == "" {
		return s, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	s.client = client
	return s, nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *GeminiService) chatModel() *genai.GenerativeModel {
	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(0.7)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(2048)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
	}
	return model
}

func (s *GeminiService) quotesModel() *genai.GenerativeModel {
	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(0.9)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(2048)
	model.ResponseMIMEType = "application/json"
	return model
}

// Complete sends the whole exchange as one text part and returns the trimmed
// reply. Exactly one attempt is made, bounded by the configured timeout.
func (s *GeminiService) Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, message string) (string, error) {
	if s.client == nil {
		return "", &ConfigError{Message: "GEMINI_API_KEY not configured"}
	}
	return s.generate(ctx, s.chatModel(), buildConversationText(systemPrompt, history, message))
}

// GenerateQuotesJSON runs the quote prompt with a JSON response type and
// returns the raw model text for ParseQuotes.
func (s *GeminiService) GenerateQuotesJSON(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", &ConfigError{Message: "GEMINI_API_KEY not configured"}
	}
	return s.generate(ctx, s.quotesModel(), prompt)
}

func (s *GeminiService) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &UpstreamError{Message: "Gemini API request timed out", Err: err}
		}
		return "", &UpstreamError{Message: "Gemini API error", Err: err}
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil {
			s.logger.Warn("gemini: prompt blocked", zap.String("block_reason", resp.PromptFeedback.BlockReason.String()))
		}
		return "", &UpstreamError{Message: "No response from Gemini API"}
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			s.logger.Warn("gemini: candidate did not finish normally",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()),
			)
		}
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", &UpstreamError{Message: "No response from Gemini API"}
	}

	s.logger.Debug("gemini: response received",
		zap.String("model", s.modelName),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

// buildConversationText flattens the exchange into the transcript format
// the persona prompt expects, ending with an open assistant line.
func buildConversationText(systemPrompt string, history []models.ChatMessage, message string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n" + conversationMarker + "\n")
	for _, msg := range history {
		speaker := "🤖 Assistant"
		if msg.Role == models.RoleUser {
			speaker = "👤 User"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", speaker, msg.Content)
	}
	fmt.Fprintf(&b, "👤 User: %s\n\n🤖 Assistant: ", message)
	return b.String()
}

// extractText reads the first candidate's text parts.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}
