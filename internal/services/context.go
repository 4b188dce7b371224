package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"synergy-backend/internal/models"
)

const (
	maxSchedules     = 10
	maxTasks         = 10
	maxOrganizations = 5
	maxCompetitions  = 5
)

// ContextStore is the read side the aggregator needs. It is satisfied by
// *repository.ContextRepo.
type ContextStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error)
	ListSchedules(ctx context.Context, userID uuid.UUID, limit int) ([]models.ScheduleEntry, error)
	ListUpcomingTasks(ctx context.Context, userID uuid.UUID, asOf time.Time, limit int) ([]models.TaskEntry, error)
	ListActiveOrganizations(ctx context.Context, userID uuid.UUID, limit int) ([]models.OrganizationEntry, error)
	ListRecentCompetitions(ctx context.Context, userID uuid.UUID, limit int) ([]models.CompetitionEntry, error)
	CountProjects(ctx context.Context, userID uuid.UUID) (int, error)
}

type ContextAggregator struct {
	store        ContextStore
	queryTimeout time.Duration
	logger       *zap.Logger
}

func NewContextAggregator(store ContextStore, queryTimeout time.Duration, logger *zap.Logger) *ContextAggregator {
	return &ContextAggregator{store: store, queryTimeout: queryTimeout, logger: logger}
}

// Aggregate builds a best-effort snapshot of the student's state as of asOf.
// It never fails: a sub-query that errors or times out is logged and its
// field is left empty.
func (a *ContextAggregator) Aggregate(ctx context.Context, userID uuid.UUID, asOf time.Time) models.UserContext {
	var (
		profile       *models.StudentProfile
		schedules     []models.ScheduleEntry
		tasks         []models.TaskEntry
		organizations []models.OrganizationEntry
		competitions  []models.CompetitionEntry
		projects      *int
	)

	// The group context is not used: one failed read must not cancel the others.
	var g errgroup.Group

	g.Go(func() error {
		a.run(ctx, userID, "profile", func(ctx context.Context) error {
			p, err := a.store.GetProfile(ctx, userID)
			if err == nil {
				profile = p
			}
			return err
		})
		return nil
	})
	g.Go(func() error {
		a.run(ctx, userID, "schedules", func(ctx context.Context) error {
			s, err := a.store.ListSchedules(ctx, userID, maxSchedules)
			if err == nil {
				schedules = s
			}
			return err
		})
		return nil
	})
	g.Go(func() error {
		a.run(ctx, userID, "tasks", func(ctx context.Context) error {
			t, err := a.store.ListUpcomingTasks(ctx, userID, asOf, maxTasks)
			if err == nil {
				tasks = t
			}
			return err
		})
		return nil
	})
	g.Go(func() error {
		a.run(ctx, userID, "organizations", func(ctx context.Context) error {
			o, err := a.store.ListActiveOrganizations(ctx, userID, maxOrganizations)
			if err == nil {
				organizations = o
			}
			return err
		})
		return nil
	})
	g.Go(func() error {
		a.run(ctx, userID, "competitions", func(ctx context.Context) error {
			c, err := a.store.ListRecentCompetitions(ctx, userID, maxCompetitions)
			if err == nil {
				competitions = c
			}
			return err
		})
		return nil
	})
	g.Go(func() error {
		a.run(ctx, userID, "projects_count", func(ctx context.Context) error {
			n, err := a.store.CountProjects(ctx, userID)
			if err == nil && n >= 0 {
				projects = &n
			}
			return err
		})
		return nil
	})

	g.Wait()

	uc := models.UserContext{}
	if profile != nil {
		uc.Profile = profile
		uc.CurrentSemester = CurrentSemester(profile.IntakeYear, asOf)
	}
	if len(schedules) > 0 {
		uc.UpcomingSchedules = capSlice(schedules, maxSchedules)
	}
	if len(tasks) > 0 {
		uc.UpcomingTasks = capSlice(tasks, maxTasks)
	}
	if len(organizations) > 0 {
		uc.ActiveOrganizations = capSlice(organizations, maxOrganizations)
	}
	if len(competitions) > 0 {
		uc.RecentCompetitions = capSlice(competitions, maxCompetitions)
	}
	uc.ProjectsCount = projects
	return uc
}

// run executes one sub-query under its own timeout. fn only publishes its
// result when the read succeeded.
func (a *ContextAggregator) run(ctx context.Context, userID uuid.UUID, field string, fn func(ctx context.Context) error) {
	qctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()

	if err := fn(qctx); err != nil {
		a.logger.Warn("context aggregation: sub-query failed",
			zap.String("field", field),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

// CurrentSemester derives "Semester N" from the intake year. A semester runs
// from August, so August onward counts as the odd term of the academic year.
// An unknown intake year (0) is treated as the current year.
func CurrentSemester(intakeYear int, asOf time.Time) string {
	if intakeYear <= 0 {
		intakeYear = asOf.Year()
	}
	yearDiff := asOf.Year() - intakeYear
	semester := yearDiff * 2
	if asOf.Month() >= time.August {
		semester++
	}
	return fmt.Sprintf("Semester %d", semester)
}

func capSlice[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
