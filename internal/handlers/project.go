package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/apperr"
	"github.com/monocle-dev/taskboard/internal/middleware"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/policy"
	"github.com/monocle-dev/taskboard/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultProjectLength = 30

type CreateProjectRequest struct {
	Title       string        `json:"title" binding:"required,max=200"`
	Description string        `json:"description"`
	Status      models.Status `json:"status"`
	StartDate   *models.Date  `json:"start_date"`
	Deadline    *models.Date  `json:"deadline"`
	MemberIDs   []uint        `json:"member_ids"`
}

// UpdateProjectRequest is used for both PUT and PATCH; absent fields keep
// their stored value. MemberIDs, when present, replaces the member set.
type UpdateProjectRequest struct {
	Title       *string        `json:"title" binding:"omitempty,max=200"`
	Description *string        `json:"description"`
	Status      *models.Status `json:"status"`
	StartDate   *models.Date   `json:"start_date"`
	Deadline    *models.Date   `json:"deadline"`
	MemberIDs   *[]uint        `json:"member_ids"`
}

type MemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type StatusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

func loadProject(ctx context.Context, id uint) (models.Project, error) {
	var project models.Project

	err := db.DB.WithContext(ctx).
		Preload("Owner").
		Preload("Memberships", func(tx *gorm.DB) *gorm.DB { return tx.Order("project_memberships.id") }).
		Preload("Memberships.User").
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB { return tx.Order("tasks.id") }).
		Preload("Tasks.AssignedTo").
		First(&project, id).Error

	return project, notFound(err, "Project not found")
}

// loadVisibleProject hides projects the caller may not view behind a
// not-found error.
func loadVisibleProject(ctx *gin.Context, user middleware.AuthenticatedUser) (models.Project, bool) {
	id, ok := idParam(ctx, "id")

	if !ok {
		return models.Project{}, false
	}

	project, err := loadProject(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return models.Project{}, false
	}

	if !policy.CanViewProject(user.Principal(), project) {
		respondError(ctx, apperr.NotFound("Project not found"))
		return models.Project{}, false
	}

	return project, true
}

func loadMutableProject(ctx *gin.Context, user middleware.AuthenticatedUser) (models.Project, bool) {
	project, ok := loadVisibleProject(ctx, user)

	if !ok {
		return models.Project{}, false
	}

	if !policy.CanMutateProject(user.Principal(), project) {
		respondError(ctx, apperr.Forbidden("Only the project owner can modify this project"))
		return models.Project{}, false
	}

	return project, true
}

// findUsers loads the users with the given IDs, failing when any is missing.
func findUsers(tx *gorm.DB, ids []uint) ([]models.User, error) {
	ids = uniqueIDs(ids)

	if len(ids) == 0 {
		return nil, nil
	}

	var users []models.User

	if err := tx.Where("id IN ?", ids).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	if len(users) != len(ids) {
		return nil, apperr.Invalid("One or more members do not exist")
	}

	return users, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	return out
}

func addMemberships(tx *gorm.DB, projectID uint, users []models.User) error {
	for _, u := range users {
		membership := models.ProjectMembership{UserID: u.ID, ProjectID: projectID}

		if err := tx.Omit(clause.Associations).Create(&membership).Error; err != nil {
			return err
		}
	}
	return nil
}

func CreateProject(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body CreateProjectRequest

	if !bindJSON(ctx, &body) {
		return
	}

	title := strings.TrimSpace(body.Title)

	if title == "" {
		respondError(ctx, apperr.Invalid("Title is required"))
		return
	}

	status := body.Status

	if status == "" {
		status = models.StatusTodo
	}

	if !status.Valid() {
		respondError(ctx, apperr.Invalid("Invalid status"))
		return
	}

	startDate := models.DateOf(time.Now())

	if body.StartDate != nil {
		startDate = *body.StartDate
	}

	deadline := startDate.AddDays(defaultProjectLength)

	if body.Deadline != nil {
		deadline = *body.Deadline
	}

	if deadline.Before(startDate) {
		respondError(ctx, apperr.Invalid("Deadline cannot be before the start date"))
		return
	}

	project := models.Project{
		Title:       title,
		Description: body.Description,
		Status:      status,
		StartDate:   startDate,
		Deadline:    deadline,
		OwnerID:     user.ID,
	}

	var notifications []models.Notification

	err := db.DB.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		members, err := findUsers(tx, body.MemberIDs)

		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&project).Error; err != nil {
			return err
		}

		if err := addMemberships(tx, project.ID, members); err != nil {
			return err
		}

		notifications = Notifier.OnProjectCreated(ctx.Request.Context(), tx, project, members, user.Model())
		return nil
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	Notifier.Push(notifications)

	created, err := loadProject(ctx.Request.Context(), project.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewProjectResponse(created, user.Principal()))
}

func ListProjects(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var projects []models.Project

	err := db.DB.WithContext(ctx.Request.Context()).
		Scopes(policy.ProjectScope(user.Principal())).
		Preload("Owner").
		Preload("Memberships", func(tx *gorm.DB) *gorm.DB { return tx.Order("project_memberships.id") }).
		Preload("Memberships.User").
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB { return tx.Order("tasks.id") }).
		Preload("Tasks.AssignedTo").
		Order("projects.id").
		Find(&projects).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, types.NewProjectResponse(project, user.Principal()))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	project, ok := loadVisibleProject(ctx, user)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponse(project, user.Principal()))
}

func UpdateProject(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body UpdateProjectRequest

	if !bindJSON(ctx, &body) {
		return
	}

	project, ok := loadMutableProject(ctx, user)

	if !ok {
		return
	}

	updates := map[string]interface{}{}

	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			respondError(ctx, apperr.Invalid("Title cannot be empty"))
			return
		}
		updates["title"] = title
	}

	if body.Description != nil {
		updates["description"] = *body.Description
	}

	if body.Status != nil {
		if !body.Status.Valid() {
			respondError(ctx, apperr.Invalid("Invalid status"))
			return
		}
		updates["status"] = *body.Status
	}

	startDate, deadline := project.StartDate, project.Deadline

	if body.StartDate != nil {
		startDate = *body.StartDate
		updates["start_date"] = startDate
	}

	if body.Deadline != nil {
		deadline = *body.Deadline
		updates["deadline"] = deadline
	}

	if deadline.Before(startDate) {
		respondError(ctx, apperr.Invalid("Deadline cannot be before the start date"))
		return
	}

	var notifications []models.Notification

	err := db.DB.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Project{}).Where("id = ?", project.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if body.MemberIDs == nil {
			return nil
		}

		members, err := findUsers(tx, *body.MemberIDs)

		if err != nil {
			return err
		}

		wanted := make(map[uint]bool, len(members))
		var added []models.User

		for _, m := range members {
			wanted[m.ID] = true
			if !project.HasMember(m.ID) {
				added = append(added, m)
			}
		}

		var removed []uint

		for _, id := range project.MemberIDs() {
			if !wanted[id] {
				removed = append(removed, id)
			}
		}

		if len(removed) > 0 {
			if err := tx.Where("project_id = ? AND user_id IN ?", project.ID, removed).
				Delete(&models.ProjectMembership{}).Error; err != nil {
				return err
			}
		}

		if err := addMemberships(tx, project.ID, added); err != nil {
			return err
		}

		notifications = Notifier.OnMembersAdded(ctx.Request.Context(), tx, project, added, user.Model())
		return nil
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	Notifier.Push(notifications)

	updated, err := loadProject(ctx.Request.Context(), project.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponse(updated, user.Principal()))
}

func DeleteProject(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	project, ok := loadMutableProject(ctx, user)

	if !ok {
		return
	}

	var assignees []uint

	err := db.DB.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("project_id = ? AND assigned_to_id IS NOT NULL", project.ID).
			Distinct().
			Pluck("assigned_to_id", &assignees).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, project.ID).Error
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	refreshCounters(ctx.Request.Context(), assignees...)

	ctx.Status(http.StatusNoContent)
}

func AddMember(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body MemberRequest

	if !bindJSON(ctx, &body) {
		return
	}

	project, ok := loadMutableProject(ctx, user)

	if !ok {
		return
	}

	var member models.User

	if err := db.DB.First(&member, body.UserID).Error; err != nil {
		respondError(ctx, notFound(err, "User not found"))
		return
	}

	if project.HasMember(member.ID) {
		ctx.JSON(http.StatusOK, gin.H{"message": "User is already a member of this project"})
		return
	}

	var notifications []models.Notification

	err := db.DB.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := addMemberships(tx, project.ID, []models.User{member}); err != nil {
			return err
		}

		notifications = Notifier.OnMembersAdded(ctx.Request.Context(), tx, project, []models.User{member}, user.Model())
		return nil
	})

	if err != nil {
		if db.IsUniqueViolation(err) {
			ctx.JSON(http.StatusOK, gin.H{"message": "User is already a member of this project"})
			return
		}
		respondError(ctx, err)
		return
	}

	Notifier.Push(notifications)

	ctx.JSON(http.StatusOK, gin.H{"message": "Member added successfully"})
}

// RemoveMember deletes the membership only. Tasks assigned to the removed
// user keep their assignment.
func RemoveMember(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body MemberRequest

	if !bindJSON(ctx, &body) {
		return
	}

	project, ok := loadMutableProject(ctx, user)

	if !ok {
		return
	}

	if !project.HasMember(body.UserID) {
		respondError(ctx, apperr.Invalid("User is not a member of this project"))
		return
	}

	err := db.DB.WithContext(ctx.Request.Context()).
		Where("project_id = ? AND user_id = ?", project.ID, body.UserID).
		Delete(&models.ProjectMembership{}).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

func UpdateProjectStatus(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body StatusRequest

	if !bindJSON(ctx, &body) {
		return
	}

	if !body.Status.Valid() {
		respondError(ctx, apperr.Invalid("Invalid status"))
		return
	}

	project, ok := loadMutableProject(ctx, user)

	if !ok {
		return
	}

	err := db.DB.WithContext(ctx.Request.Context()).
		Model(&models.Project{}).
		Where("id = ?", project.ID).
		Update("status", body.Status).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	updated, err := loadProject(ctx.Request.Context(), project.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponse(updated, user.Principal()))
}
