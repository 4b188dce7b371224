package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"synergy-backend/internal/models"
)

const (
	ThemeAwalSemester = "awal-semester"
	ThemeUTS          = "UTS"
	ThemeUAS          = "UAS"
	ThemeLibur        = "libur"
	ThemeTugasAkhir   = "tugas-akhir"

	defaultQuoteCount = 10
	maxQuoteCount     = 50
	maxQuoteRunes     = 150
	quotesPreviewSize = 3

	defaultQuoteListLimit = 20
	maxQuoteListLimit     = 100
)

// QuoteGenerator returns raw model output for a quote prompt. Satisfied by
// *GeminiService.
type QuoteGenerator interface {
	GenerateQuotesJSON(ctx context.Context, prompt string) (string, error)
}

// QuoteStore is satisfied by *repository.QuoteRepo.
type QuoteStore interface {
	DeactivateTheme(ctx context.Context, theme string) (int64, error)
	InsertBatch(ctx context.Context, quotes []models.MotivationalQuote) ([]models.MotivationalQuote, error)
	ListActive(ctx context.Context, theme string, limit int) ([]models.MotivationalQuote, error)
}

// DetectAcademicPeriod maps a date to the ITS academic calendar. The odd
// (Ganjil) semester runs August to January, so January belongs to the
// academic year that started the previous August.
func DetectAcademicPeriod(now time.Time) (periodContext, theme string) {
	month := now.Month()

	semester := "Genap"
	if month >= time.August || month == time.January {
		semester = "Ganjil"
	}
	year := now.Year()
	if month == time.January {
		year--
	}

	switch month {
	case time.September, time.February, time.March:
		return fmt.Sprintf("Awal Semester %s %d/%d", semester, year, year+1), ThemeAwalSemester
	case time.October, time.November, time.April, time.May:
		return fmt.Sprintf("Pertengahan Semester %s - Persiapan UTS %d/%d", semester, year, year+1), ThemeUTS
	case time.December, time.June:
		return fmt.Sprintf("Akhir Semester %s - Persiapan UAS %d/%d", semester, year, year+1), ThemeUAS
	default:
		return fmt.Sprintf("Libur Semester - Waktu Pengembangan Diri %d", year), ThemeLibur
	}
}

func clampQuoteCount(n int) int {
	switch {
	case n <= 0:
		return defaultQuoteCount
	case n > maxQuoteCount:
		return maxQuoteCount
	default:
		return n
	}
}

const tugasAkhirBlock = `
🎓 SPECIAL THEME: MOTIVASI TUGAS AKHIR (TA) 🎓
Quote khusus untuk mahasiswa tingkat akhir (semester 7-8) yang sedang mengerjakan Tugas Akhir (Skripsi/Thesis).

Fokus motivasi:
- Semangat menyelesaikan TA di tengah tantangan
- Konsistensi dalam progress TA (sedikit-sedikit lama-lama jadi bukit)
- Mengatasi rasa jenuh dan writer's block
- Percaya diri menghadapi bimbingan dan revisi
- Mengingatkan bahwa finish line sudah dekat
- Kebanggaan akan pencapaian besar yang sedang dikerjakan
- Work-life balance selama mengerjakan TA

Gunakan tone yang empati, supportive, dan realistic (acknowledge bahwa TA itu challenging tapi achievable).
`

func buildQuotesPrompt(periodContext, theme string, count int) string {
	var special string
	if theme == ThemeTugasAkhir {
		special = tugasAkhirBlock
	}

	return fmt.Sprintf(`Kamu adalah motivator mahasiswa Indonesia, khususnya mahasiswa ITS (Institut Teknologi Sepuluh Nopember) Surabaya.

Tugasmu adalah membuat %[1]d kata-kata motivasi yang:
- Relevan dengan kehidupan mahasiswa Indonesia
- Mempertimbangkan konteks akademik (UTS, UAS, semester, dll)
- Mempertimbangkan budaya Indonesia dan bahasa yang familiar
- Mendorong keseimbangan antara akademik, organisasi, kompetisi, dan pengembangan diri
- Fokus pada produktivitas, konsistensi, dan karakter
- Tidak terlalu formal, friendly seperti teman sebaya
- Panjang maksimal %[4]d karakter agar mudah dibaca
- Menghindari klise yang terlalu umum

Konteks saat ini: %[2]s
Theme: %[3]s
%[5]s
Generate %[1]d kata-kata motivasi yang unik dan relevan untuk mahasiswa dalam konteks "%[2]s".

Setiap quote harus:
1. Original dan tidak klise
2. Spesifik untuk situasi mahasiswa saat ini
3. Menginspirasi action, bukan hanya perasaan
4. Menggunakan bahasa Indonesia yang natural

Format response sebagai JSON array (HANYA JSON, tanpa text lain):
[
  {
    "quote_text": "kata motivasi disini",
    "theme": "%[3]s",
    "relevance_context": "kapan atau untuk siapa quote ini paling relevan"
  }
]`, count, periodContext, theme, maxQuoteRunes, special)
}

// ParseQuotes decodes the model's JSON array and keeps only usable quotes:
// non-empty, at most 150 characters, not repeated. A missing theme falls back
// to the requested one. It fails when nothing usable remains.
func ParseQuotes(raw, theme string) ([]models.MotivationalQuote, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed []struct {
		QuoteText        string `json:"quote_text"`
		Theme            string `json:"theme"`
		RelevanceContext string `json:"relevance_context"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &ParseError{Message: "Failed to parse generated quotes", Err: err}
	}

	seen := make(map[string]bool, len(parsed))
	quotes := make([]models.MotivationalQuote, 0, len(parsed))
	for _, p := range parsed {
		text := strings.TrimSpace(p.QuoteText)
		if text == "" || utf8.RuneCountInString(text) > maxQuoteRunes || seen[text] {
			continue
		}
		seen[text] = true

		q := models.MotivationalQuote{
			QuoteText:        text,
			Theme:            strings.TrimSpace(p.Theme),
			RelevanceContext: strings.TrimSpace(p.RelevanceContext),
		}
		if q.Theme == "" {
			q.Theme = theme
		}
		quotes = append(quotes, q)
	}

	if len(quotes) == 0 {
		return nil, &ParseError{Message: "Generated quotes contained no valid entries"}
	}
	return quotes, nil
}

type QuoteService struct {
	generator QuoteGenerator
	store     QuoteStore
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewQuoteService(generator QuoteGenerator, store QuoteStore, location *time.Location, logger *zap.Logger) *QuoteService {
	if location == nil {
		location = time.UTC
	}
	return &QuoteService{
		generator: generator,
		store:     store,
		location:  location,
		now:       time.Now,
		logger:    logger,
	}
}

// CurrentPeriod is DetectAcademicPeriod for the service's clock and timezone.
func (s *QuoteService) CurrentPeriod() (periodContext, theme string) {
	return DetectAcademicPeriod(s.now().In(s.location))
}

// Generate asks the model for a batch of quotes for the requested or
// detected period and stores them.
func (s *QuoteService) Generate(ctx context.Context, req models.GenerateQuotesRequest) (*models.GenerateQuotesResult, error) {
	periodContext, theme := s.CurrentPeriod()
	if c := strings.TrimSpace(req.Context); c != "" {
		periodContext = c
	}
	if t := strings.TrimSpace(req.Theme); t != "" {
		theme = t
	}
	count := clampQuoteCount(req.Count)

	s.logger.Info("quotes: generating",
		zap.Int("count", count),
		zap.String("context", periodContext),
		zap.String("theme", theme),
	)

	raw, err := s.generator.GenerateQuotesJSON(ctx, buildQuotesPrompt(periodContext, theme, count))
	if err != nil {
		return nil, err
	}

	quotes, err := ParseQuotes(raw, theme)
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		if quotes[i].RelevanceContext == "" {
			quotes[i].RelevanceContext = periodContext
		}
	}

	if req.ReplaceExisting {
		n, err := s.store.DeactivateTheme(ctx, theme)
		if err != nil {
			s.logger.Warn("quotes: failed to deactivate old quotes", zap.String("theme", theme), zap.Error(err))
		} else {
			s.logger.Info("quotes: deactivated old quotes", zap.String("theme", theme), zap.Int64("count", n))
		}
	}

	inserted, err := s.store.InsertBatch(ctx, quotes)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quotes: %w", err)
	}

	preview := make([]string, 0, quotesPreviewSize)
	for _, q := range inserted {
		if len(preview) == quotesPreviewSize {
			break
		}
		preview = append(preview, q.QuoteText)
	}

	return &models.GenerateQuotesResult{
		GeneratedCount: len(quotes),
		InsertedCount:  len(inserted),
		Context:        periodContext,
		Theme:          theme,
		QuotesPreview:  preview,
	}, nil
}

// List returns active quotes for theme, or for the current period when
// theme is empty.
func (s *QuoteService) List(ctx context.Context, theme string, limit int) ([]models.MotivationalQuote, string, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		_, theme = s.CurrentPeriod()
	}
	if limit <= 0 {
		limit = defaultQuoteListLimit
	}
	if limit > maxQuoteListLimit {
		limit = maxQuoteListLimit
	}

	quotes, err := s.store.ListActive(ctx, theme, limit)
	if err != nil {
		return nil, theme, fmt.Errorf("failed to list quotes: %w", err)
	}
	return quotes, theme, nil
}
