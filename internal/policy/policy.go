// Package policy decides what a principal may see and change. Predicates
// work on already-loaded records; scopes express the same visibility rules
// as gorm query conditions so list endpoints never load rows they must hide.
package policy

import (
	"github.com/monocle-dev/taskboard/internal/models"
)

// Principal is the authenticated user a request acts for.
type Principal struct {
	UserID uint
	Role   models.Role
}

func PrincipalOf(u models.User) Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}

// IsAdmin reports whether p has administrative visibility. PROJECT_MANAGER
// carries no extra rights and is treated like TEAM_MEMBER.
func (p Principal) IsAdmin() bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeamMember, models.RoleProjectManager:
		return false
	default:
		return false
	}
}

func isOwner(p Principal, project models.Project) bool {
	return project.OwnerID == p.UserID
}

func isMember(p Principal, project models.Project) bool {
	return project.HasMember(p.UserID)
}

// CanViewProject: owner, member, or admin. project.Memberships must be loaded.
func CanViewProject(p Principal, project models.Project) bool {
	return p.IsAdmin() || isOwner(p, project) || isMember(p, project)
}

// CanMutateProject covers update, delete, membership changes and status
// changes. Only the owner qualifies; admins do not.
func CanMutateProject(p Principal, project models.Project) bool {
	return isOwner(p, project)
}

// CanViewTask: admins see every task, everyone else only their assignments.
func CanViewTask(p Principal, task models.Task) bool {
	return p.IsAdmin() || task.IsAssignedTo(p.UserID)
}

// CanReachTask reports whether p may learn that task exists, through its
// project or through the assignment. Mutations on unreachable tasks answer
// not-found. task.Project.Memberships must be loaded.
func CanReachTask(p Principal, task models.Task) bool {
	return CanViewTask(p, task) || CanViewProject(p, task.Project)
}

// CanCreateTask: admin, owner or member of the target project.
func CanCreateTask(p Principal, project models.Project) bool {
	return p.IsAdmin() || isOwner(p, project) || isMember(p, project)
}

// CanUpdateTaskStatus: admin or the assignee.
func CanUpdateTaskStatus(p Principal, task models.Task) bool {
	return p.IsAdmin() || task.IsAssignedTo(p.UserID)
}

// CanUpdateTask covers general field edits and reassignment.
func CanUpdateTask(p Principal, project models.Project) bool {
	return p.IsAdmin() || isOwner(p, project) || isMember(p, project)
}

// CanDeleteTask: project owner only.
func CanDeleteTask(p Principal, project models.Project) bool {
	return isOwner(p, project)
}

// CanAccessComment governs reading and changing comments: anyone who can see
// the project the comment's task belongs to.
func CanAccessComment(p Principal, project models.Project) bool {
	return CanViewProject(p, project)
}

// CanViewNotification: recipients only, regardless of role.
func CanViewNotification(p Principal, n models.Notification) bool {
	return n.UserID == p.UserID
}

// CanManageUser: admins and the user themselves.
func CanManageUser(p Principal, userID uint) bool {
	return p.IsAdmin() || p.UserID == userID
}

// CanManageUsers gates approval and the pending/approved listing.
func CanManageUsers(p Principal) bool {
	return p.IsAdmin()
}
