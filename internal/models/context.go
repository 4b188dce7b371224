package models

// UserContext is the per-request snapshot of a student's state. Every field
// is independently optional: nil means no data was available.
type UserContext struct {
	Profile             *StudentProfile     `json:"profile,omitempty"`
	CurrentSemester     string              `json:"current_semester,omitempty"`
	UpcomingSchedules   []ScheduleEntry     `json:"upcoming_schedules,omitempty"`
	UpcomingTasks       []TaskEntry         `json:"upcoming_tasks,omitempty"`
	ActiveOrganizations []OrganizationEntry `json:"active_organizations,omitempty"`
	RecentCompetitions  []CompetitionEntry  `json:"recent_competitions,omitempty"`
	ProjectsCount       *int                `json:"projects_count,omitempty"`
}

// IsEmpty reports whether no field carries data.
func (c UserContext) IsEmpty() bool {
	return c.Profile == nil &&
		c.CurrentSemester == "" &&
		len(c.UpcomingSchedules) == 0 &&
		len(c.UpcomingTasks) == 0 &&
		len(c.ActiveOrganizations) == 0 &&
		len(c.RecentCompetitions) == 0 &&
		c.ProjectsCount == nil
}

type StudentProfile struct {
	FullName   string `json:"full_name"`
	NPM        string `json:"npm"`
	Major      string `json:"major"`
	IntakeYear int    `json:"intake_year"`
}

type ScheduleEntry struct {
	CourseName  string `json:"course_name"`
	ScheduleDay string `json:"schedule_day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type TaskEntry struct {
	Title    string `json:"title"`
	DueDate  string `json:"due_date"` // YYYY-MM-DD
	Priority string `json:"priority"`
}

type OrganizationEntry struct {
	OrganizationName string `json:"organization_name"`
	Role             string `json:"role"`
}

type CompetitionEntry struct {
	CompetitionName string `json:"competition_name"`
	Status          string `json:"status"`
}
