package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"synergy-backend/internal/middleware"
	"synergy-backend/internal/models"
)

var errBoom = errors.New("boom")

type fakeContextStore struct {
	mu   sync.Mutex
	asOf []time.Time

	profile       *models.StudentProfile
	schedules     []models.ScheduleEntry
	tasks         []models.TaskEntry
	organizations []models.OrganizationEntry
	competitions  []models.CompetitionEntry
	projects      int

	failProfile, failSchedules, failTasks, failOrganizations, failCompetitions, failProjects bool
	// blockTasks makes the task query wait for its context to end.
	blockTasks bool
}

func (f *fakeContextStore) GetProfile(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error) {
	if f.failProfile {
		return nil, errBoom
	}
	return f.profile, nil
}

func (f *fakeContextStore) ListSchedules(ctx context.Context, userID uuid.UUID, limit int) ([]models.ScheduleEntry, error) {
	if f.failSchedules {
		return nil, errBoom
	}
	return f.schedules, nil
}

func (f *fakeContextStore) ListUpcomingTasks(ctx context.Context, userID uuid.UUID, asOf time.Time, limit int) ([]models.TaskEntry, error) {
	f.mu.Lock()
	f.asOf = append(f.asOf, asOf)
	f.mu.Unlock()

	if f.blockTasks {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.failTasks {
		return nil, errBoom
	}
	return f.tasks, nil
}

func (f *fakeContextStore) ListActiveOrganizations(ctx context.Context, userID uuid.UUID, limit int) ([]models.OrganizationEntry, error) {
	if f.failOrganizations {
		return nil, errBoom
	}
	return f.organizations, nil
}

func (f *fakeContextStore) ListRecentCompetitions(ctx context.Context, userID uuid.UUID, limit int) ([]models.CompetitionEntry, error) {
	if f.failCompetitions {
		return nil, errBoom
	}
	return f.competitions, nil
}

func (f *fakeContextStore) CountProjects(ctx context.Context, userID uuid.UUID) (int, error) {
	if f.failProjects {
		return 0, errBoom
	}
	return f.projects, nil
}

func fullContextStore() *fakeContextStore {
	return &fakeContextStore{
		profile: &models.StudentProfile{FullName: "Budi Santoso", NPM: "5025221001", Major: "Teknik Informatika", IntakeYear: 2022},
		schedules: []models.ScheduleEntry{
			{CourseName: "Basis Data", ScheduleDay: "Senin", StartTime: "08:00", EndTime: "10:00"},
			{CourseName: "Jaringan Komputer", ScheduleDay: "Rabu", StartTime: "13:00", EndTime: "15:00"},
		},
		tasks: []models.TaskEntry{
			{Title: "Laporan Praktikum", DueDate: "2025-09-20", Priority: "high"},
		},
		organizations: []models.OrganizationEntry{
			{OrganizationName: "HMTC", Role: "Staff Ristek"},
		},
		competitions: []models.CompetitionEntry{
			{CompetitionName: "Gemastik", Status: "registered"},
		},
		projects: 3,
	}
}

type fakeTranscriptStore struct {
	mu    sync.Mutex
	turns []models.Turn
	err   error
}

func (f *fakeTranscriptStore) Append(ctx context.Context, turn models.Turn) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return time.Time{}, f.err
	}
	f.turns = append(f.turns, turn)
	return time.Date(2025, 9, 15, 3, 0, 0, 0, time.UTC), nil
}

func (f *fakeTranscriptStore) recorded() []models.Turn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Turn(nil), f.turns...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.WSMessage
	err    error
}

func (f *fakePublisher) PublishToUser(ctx context.Context, userID uuid.UUID, msg models.WSMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
	return f.err
}

type fakeModel struct {
	reply string
	err   error

	calls   int
	prompt  string
	history []models.ChatMessage
	message string
	ctxErr  error
}

func (f *fakeModel) Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, message string) (string, error) {
	f.calls++
	f.prompt = systemPrompt
	f.history = history
	f.message = message
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// fakeIdentity accepts exactly one token.
type fakeIdentity struct {
	token  string
	userID uuid.UUID
}

func (f *fakeIdentity) Resolve(requireIdentity bool, authorization string) (uuid.UUID, error) {
	if authorization == "" {
		if requireIdentity {
			return uuid.Nil, middleware.ErrMissingCredential
		}
		return uuid.Nil, nil
	}
	if authorization != "Bearer "+f.token {
		if requireIdentity {
			return uuid.Nil, middleware.ErrInvalidCredential
		}
		return uuid.Nil, nil
	}
	return f.userID, nil
}

type fakeQuoteGenerator struct {
	raw    string
	err    error
	prompt string
}

func (f *fakeQuoteGenerator) GenerateQuotesJSON(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.raw, f.err
}

type fakeQuoteStore struct {
	deactivated []string
	deactErr    error
	inserted    []models.MotivationalQuote
	insertErr   error
	listTheme   string
	listLimit   int
}

func (f *fakeQuoteStore) DeactivateTheme(ctx context.Context, theme string) (int64, error) {
	f.deactivated = append(f.deactivated, theme)
	if f.deactErr != nil {
		return 0, f.deactErr
	}
	return 4, nil
}

func (f *fakeQuoteStore) InsertBatch(ctx context.Context, quotes []models.MotivationalQuote) ([]models.MotivationalQuote, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	out := make([]models.MotivationalQuote, len(quotes))
	for i, q := range quotes {
		q.ID = uuid.New()
		q.IsActive = true
		out[i] = q
	}
	f.inserted = append(f.inserted, out...)
	return out, nil
}

func (f *fakeQuoteStore) ListActive(ctx context.Context, theme string, limit int) ([]models.MotivationalQuote, error) {
	f.listTheme = theme
	f.listLimit = limit
	var out []models.MotivationalQuote
	for _, q := range f.inserted {
		if q.Theme == theme {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeLock struct {
	held       map[string]bool
	acquireErr error
	released   []string
}

func (f *fakeLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if f.acquireErr != nil {
		return false, f.acquireErr
	}
	if f.held == nil {
		f.held = map[string]bool{}
	}
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLock) Release(ctx context.Context, key string) error {
	delete(f.held, key)
	f.released = append(f.released, key)
	return nil
}
