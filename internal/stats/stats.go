// Package stats computes the dashboard: task and project status counts,
// per-member efficiency and the timeline feed. Everything is recomputed from
// the store on each call.
package stats

import (
	"math"

	"github.com/monocle-dev/taskboard/internal/models"
)

const noProject = "No Project"

type TaskStats struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

type ProjectStats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

type MemberEfficiency struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	TasksCompleted int     `json:"tasksCompleted"`
	TotalTasks     int     `json:"totalTasks"`
	Efficiency     float64 `json:"efficiency"`
	OnTime         int     `json:"onTime"`
	Delayed        int     `json:"delayed"`
}

type TimelineItem struct {
	ID        uint    `json:"id"`
	Text      string  `json:"text"`
	StartDate string  `json:"start_date"`
	Duration  int     `json:"duration"`
	Progress  float64 `json:"progress"`
	Project   string  `json:"project"`
}

type Dashboard struct {
	TaskStats      TaskStats          `json:"taskStats"`
	ProjectStats   ProjectStats       `json:"projectStats"`
	TeamEfficiency []MemberEfficiency `json:"teamEfficiency"`
	TimelineData   []TimelineItem     `json:"timelineData"`
}

// Compute builds the dashboard from already-scoped records. members are the
// users that get an efficiency entry, in output order.
func Compute(tasks []models.Task, members []models.User, projects []models.Project) Dashboard {
	team := make([]MemberEfficiency, 0, len(members))
	for _, m := range members {
		team = append(team, MemberSummary(m, tasks))
	}

	return Dashboard{
		TaskStats:      CountTasks(tasks),
		ProjectStats:   CountProjects(projects),
		TeamEfficiency: team,
		TimelineData:   Timeline(tasks),
	}
}

func CountTasks(tasks []models.Task) TaskStats {
	var s TaskStats
	for _, t := range tasks {
		switch t.Status {
		case models.StatusTodo:
			s.Todo++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusDone:
			s.Done++
		}
	}
	return s
}

func CountProjects(projects []models.Project) ProjectStats {
	s := ProjectStats{Total: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case models.StatusTodo:
			s.Todo++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusDone:
			s.Done++
		}
	}
	return s
}

// IsOnTime reports whether a DONE task was finished no later than its due
// date. The finish date is the UTC calendar date of the last update. A DONE
// task without a due date counts as delayed.
func IsOnTime(t models.Task) bool {
	if t.Status != models.StatusDone || t.DueDate == nil {
		return false
	}
	return !t.DueDate.Before(models.DateOf(t.UpdatedAt))
}

// MemberSummary computes the efficiency entry for user over the tasks in
// tasks assigned to them.
func MemberSummary(user models.User, tasks []models.Task) MemberEfficiency {
	e := MemberEfficiency{ID: user.ID, Name: user.DisplayName()}

	for _, t := range tasks {
		if !t.IsAssignedTo(user.ID) {
			continue
		}
		e.TotalTasks++
		if t.Status != models.StatusDone {
			continue
		}
		e.TasksCompleted++
		if IsOnTime(t) {
			e.OnTime++
		} else {
			e.Delayed++
		}
	}

	e.Efficiency = Efficiency(e.OnTime, e.TasksCompleted)
	return e
}

// Efficiency is the on-time share of completed tasks as a percentage rounded
// to one decimal, or 0 when nothing was completed.
func Efficiency(onTime, completed int) float64 {
	if completed == 0 {
		return 0
	}
	pct := 100 * float64(onTime) / float64(completed)
	return math.Round(pct*10) / 10
}

// Progress maps a status to the fraction shown on the timeline.
func Progress(s models.Status) float64 {
	switch s {
	case models.StatusDone:
		return 1
	case models.StatusInProgress:
		return 0.5
	default:
		return 0
	}
}

// Timeline returns one item per task with a due date, in input order.
func Timeline(tasks []models.Task) []TimelineItem {
	items := make([]TimelineItem, 0, len(tasks))

	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}

		start := models.DateOf(t.CreatedAt)
		duration := start.DaysUntil(*t.DueDate)
		if duration < 1 {
			duration = 1
		}

		project := t.Project.Title
		if project == "" {
			project = noProject
		}

		items = append(items, TimelineItem{
			ID:        t.ID,
			Text:      t.Title,
			StartDate: start.String(),
			Duration:  duration,
			Progress:  Progress(t.Status),
			Project:   project,
		})
	}

	return items
}
