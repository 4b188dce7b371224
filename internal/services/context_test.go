package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"synergy-backend/internal/models"
)

func TestCurrentSemester(t *testing.T) {
	tests := []struct {
		name       string
		intakeYear int
		asOf       time.Time
		expected   string
	}{
		{"odd term after august", 2022, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), "Semester 7"},
		{"even term before august", 2022, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), "Semester 6"},
		{"august starts the odd term", 2024, time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC), "Semester 1"},
		{"unknown intake after august", 0, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), "Semester 1"},
		{"unknown intake before august", 0, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), "Semester 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CurrentSemester(tc.intakeYear, tc.asOf))
		})
	}
}

func TestAggregate_FullContext(t *testing.T) {
	store := fullContextStore()
	agg := NewContextAggregator(store, time.Second, zap.NewNop())
	asOf := time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC)

	uc := agg.Aggregate(context.Background(), uuid.New(), asOf)

	require.NotNil(t, uc.Profile)
	assert.Equal(t, "Budi Santoso", uc.Profile.FullName)
	assert.Equal(t, "Semester 7", uc.CurrentSemester)
	assert.Len(t, uc.UpcomingSchedules, 2)
	assert.Len(t, uc.UpcomingTasks, 1)
	assert.Len(t, uc.ActiveOrganizations, 1)
	assert.Len(t, uc.RecentCompetitions, 1)
	require.NotNil(t, uc.ProjectsCount)
	assert.Equal(t, 3, *uc.ProjectsCount)
}

func TestAggregate_OmitsFailedAndEmptyFields(t *testing.T) {
	store := fullContextStore()
	store.failProfile = true
	store.schedules = nil
	store.failOrganizations = true
	store.failProjects = true

	agg := NewContextAggregator(store, time.Second, zap.NewNop())
	uc := agg.Aggregate(context.Background(), uuid.New(), time.Now())

	assert.Nil(t, uc.Profile)
	assert.Empty(t, uc.CurrentSemester, "semester is only derived with a profile")
	assert.Nil(t, uc.UpcomingSchedules)
	assert.Nil(t, uc.ActiveOrganizations)
	assert.Nil(t, uc.ProjectsCount)

	assert.Len(t, uc.UpcomingTasks, 1)
	assert.Len(t, uc.RecentCompetitions, 1)
}

func TestAggregate_AllFailuresYieldEmptyContext(t *testing.T) {
	store := &fakeContextStore{
		failProfile: true, failSchedules: true, failTasks: true,
		failOrganizations: true, failCompetitions: true, failProjects: true,
	}
	agg := NewContextAggregator(store, time.Second, zap.NewNop())

	uc := agg.Aggregate(context.Background(), uuid.New(), time.Now())
	assert.True(t, uc.IsEmpty())
}

func TestAggregate_ZeroProjectsIsPresent(t *testing.T) {
	store := &fakeContextStore{projects: 0}
	agg := NewContextAggregator(store, time.Second, zap.NewNop())

	uc := agg.Aggregate(context.Background(), uuid.New(), time.Now())
	require.NotNil(t, uc.ProjectsCount)
	assert.Equal(t, 0, *uc.ProjectsCount)
}

func TestAggregate_CapsOversizedResults(t *testing.T) {
	store := &fakeContextStore{}
	for i := 0; i < 15; i++ {
		store.schedules = append(store.schedules, models.ScheduleEntry{CourseName: "MK"})
		store.organizations = append(store.organizations, models.OrganizationEntry{OrganizationName: "Org"})
	}
	agg := NewContextAggregator(store, time.Second, zap.NewNop())

	uc := agg.Aggregate(context.Background(), uuid.New(), time.Now())
	assert.Len(t, uc.UpcomingSchedules, maxSchedules)
	assert.Len(t, uc.ActiveOrganizations, maxOrganizations)
}

func TestAggregate_IsIdempotent(t *testing.T) {
	store := fullContextStore()
	agg := NewContextAggregator(store, time.Second, zap.NewNop())
	userID := uuid.New()
	asOf := time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC)

	first := agg.Aggregate(context.Background(), userID, asOf)
	second := agg.Aggregate(context.Background(), userID, asOf)
	assert.Equal(t, first, second)
}

func TestAggregate_PassesAsOfToTaskQuery(t *testing.T) {
	store := fullContextStore()
	agg := NewContextAggregator(store, time.Second, zap.NewNop())
	asOf := time.Date(2025, time.May, 2, 23, 30, 0, 0, time.UTC)

	agg.Aggregate(context.Background(), uuid.New(), asOf)
	require.Len(t, store.asOf, 1)
	assert.True(t, store.asOf[0].Equal(asOf))
}

func TestAggregate_SlowQueryTimesOutAlone(t *testing.T) {
	store := fullContextStore()
	store.blockTasks = true
	agg := NewContextAggregator(store, 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	uc := agg.Aggregate(context.Background(), uuid.New(), time.Now())

	assert.Less(t, time.Since(start), time.Second)
	assert.Nil(t, uc.UpcomingTasks)
	assert.NotNil(t, uc.Profile)
	assert.Len(t, uc.UpcomingSchedules, 2)
}
