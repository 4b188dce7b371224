package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"synergy-backend/internal/models"
)

// ContextRepo serves the read-only queries behind a student's chat context.
type ContextRepo struct {
	pool *pgxpool.Pool
}

func NewContextRepo(pool *pgxpool.Pool) *ContextRepo {
	return &ContextRepo{pool: pool}
}

// GetProfile returns nil, nil when the user has no profile row.
func (r *ContextRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error) {
	p := &models.StudentProfile{}
	query := `SELECT full_name, COALESCE(npm, ''), COALESCE(major, ''), COALESCE(intake_year, 0)
		FROM user_profiles WHERE user_id = $1`

	err := r.pool.QueryRow(ctx, query, userID).Scan(&p.FullName, &p.NPM, &p.Major, &p.IntakeYear)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListSchedules orders by weekday (Monday first), understanding English and
// Indonesian day names; unknown names sort last.
func (r *ContextRepo) ListSchedules(ctx context.Context, userID uuid.UUID, limit int) ([]models.ScheduleEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT course_name, schedule_day, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM course_schedules
		WHERE user_id = $1
		ORDER BY CASE LOWER(TRIM(schedule_day))
				WHEN 'monday' THEN 1 WHEN 'senin' THEN 1
				WHEN 'tuesday' THEN 2 WHEN 'selasa' THEN 2
				WHEN 'wednesday' THEN 3 WHEN 'rabu' THEN 3
				WHEN 'thursday' THEN 4 WHEN 'kamis' THEN 4
				WHEN 'friday' THEN 5 WHEN 'jumat' THEN 5 WHEN 'jum''at' THEN 5
				WHEN 'saturday' THEN 6 WHEN 'sabtu' THEN 6
				WHEN 'sunday' THEN 7 WHEN 'minggu' THEN 7
				ELSE 8
			END,
			start_time, course_name, id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ScheduleEntry
	for rows.Next() {
		var s models.ScheduleEntry
		if err := rows.Scan(&s.CourseName, &s.ScheduleDay, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListUpcomingTasks returns incomplete tasks due on or after asOf's calendar date.
func (r *ContextRepo) ListUpcomingTasks(ctx context.Context, userID uuid.UUID, asOf time.Time, limit int) ([]models.TaskEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT title, to_char(due_date, 'YYYY-MM-DD'), priority
		FROM user_tasks
		WHERE user_id = $1
		  AND is_completed = FALSE
		  AND due_date >= $2::date
		ORDER BY due_date ASC, id
		LIMIT $3
	`, userID, asOf.Format("2006-01-02"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TaskEntry
	for rows.Next() {
		var t models.TaskEntry
		if err := rows.Scan(&t.Title, &t.DueDate, &t.Priority); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ContextRepo) ListActiveOrganizations(ctx context.Context, userID uuid.UUID, limit int) ([]models.OrganizationEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT organization_name, role
		FROM user_organizations
		WHERE user_id = $1
		  AND is_active = TRUE
		ORDER BY organization_name, id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.OrganizationEntry
	for rows.Next() {
		var o models.OrganizationEntry
		if err := rows.Scan(&o.OrganizationName, &o.Role); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *ContextRepo) ListRecentCompetitions(ctx context.Context, userID uuid.UUID, limit int) ([]models.CompetitionEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT competition_name, status
		FROM user_competitions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CompetitionEntry
	for rows.Next() {
		var c models.CompetitionEntry
		if err := rows.Scan(&c.CompetitionName, &c.Status); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContextRepo) CountProjects(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM user_projects WHERE user_id = $1", userID).Scan(&count)
	return count, err
}
