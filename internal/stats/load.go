package stats

import (
	"context"
	"fmt"

	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/policy"
	"gorm.io/gorm"
)

// Load runs the scoped queries for p and computes the dashboard.
func Load(ctx context.Context, conn *gorm.DB, p policy.Principal) (Dashboard, error) {
	var tasks []models.Task
	if err := conn.WithContext(ctx).
		Scopes(policy.TaskScope(p)).
		Preload("Project").
		Order("tasks.id").
		Find(&tasks).Error; err != nil {
		return Dashboard{}, fmt.Errorf("load tasks: %w", err)
	}

	var projects []models.Project
	if err := conn.WithContext(ctx).
		Scopes(policy.ProjectScope(p)).
		Find(&projects).Error; err != nil {
		return Dashboard{}, fmt.Errorf("load projects: %w", err)
	}

	members, err := efficiencyMembers(ctx, conn, p)
	if err != nil {
		return Dashboard{}, err
	}

	return Compute(tasks, members, projects), nil
}

// efficiencyMembers returns every approved TEAM_MEMBER for admins and the
// principal alone for everyone else.
func efficiencyMembers(ctx context.Context, conn *gorm.DB, p policy.Principal) ([]models.User, error) {
	var members []models.User

	if p.IsAdmin() {
		if err := conn.WithContext(ctx).
			Where("role = ? AND is_approved = ?", models.RoleTeamMember, true).
			Order("id").
			Find(&members).Error; err != nil {
			return nil, fmt.Errorf("load team members: %w", err)
		}
		return members, nil
	}

	var self models.User
	if err := conn.WithContext(ctx).First(&self, p.UserID).Error; err != nil {
		return nil, fmt.Errorf("load principal: %w", err)
	}
	return append(members, self), nil
}

// RefreshUserCounters rewrites the cached counters on the user row from the
// user's current assignments.
func RefreshUserCounters(ctx context.Context, conn *gorm.DB, userID uint) error {
	var user models.User
	if err := conn.WithContext(ctx).First(&user, userID).Error; err != nil {
		return fmt.Errorf("load user %d: %w", userID, err)
	}

	var tasks []models.Task
	if err := conn.WithContext(ctx).Where("assigned_to_id = ?", userID).Find(&tasks).Error; err != nil {
		return fmt.Errorf("load tasks for user %d: %w", userID, err)
	}

	summary := MemberSummary(user, tasks)

	return conn.WithContext(ctx).Model(&user).UpdateColumns(map[string]interface{}{
		"tasks_completed": summary.TasksCompleted,
		"tasks_on_time":   summary.OnTime,
		"tasks_delayed":   summary.Delayed,
		"efficiency":      summary.Efficiency,
	}).Error
}
