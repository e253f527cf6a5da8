package policy

import (
	"gorm.io/gorm"
)

const memberProjectsSubquery = "SELECT project_id FROM project_memberships WHERE user_id = ?"

// ProjectScope restricts a projects query to what p may view.
func ProjectScope(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.IsAdmin() {
			return db
		}
		return db.Where("(projects.owner_id = ? OR projects.id IN ("+memberProjectsSubquery+"))", p.UserID, p.UserID)
	}
}

// TaskScope restricts a tasks query to what p may view.
func TaskScope(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.IsAdmin() {
			return db
		}
		return db.Where("tasks.assigned_to_id = ?", p.UserID)
	}
}

// CommentScope restricts a comments query to comments on tasks in projects p
// may view.
func CommentScope(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.IsAdmin() {
			return db
		}
		return db.Where(
			"comments.task_id IN (SELECT tasks.id FROM tasks JOIN projects ON projects.id = tasks.project_id "+
				"WHERE projects.owner_id = ? OR projects.id IN ("+memberProjectsSubquery+"))",
			p.UserID, p.UserID,
		)
	}
}

// NotificationScope restricts a notifications query to p's own.
func NotificationScope(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("notifications.user_id = ?", p.UserID)
	}
}
