package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/apperr"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/policy"
	"github.com/monocle-dev/taskboard/internal/stats"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/monocle-dev/taskboard/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateTaskRequest struct {
	Title        string          `json:"title" binding:"required,max=200"`
	Description  string          `json:"description"`
	Project      uint            `json:"project" binding:"required"`
	AssignedToID *uint           `json:"assigned_to_id"`
	Status       models.Status   `json:"status"`
	Priority     models.Priority `json:"priority"`
	DueDate      *models.Date    `json:"due_date"`
}

// UpdateTaskRequest is used for both PUT and PATCH. assigned_to_id and
// due_date may be sent as null to clear them.
type UpdateTaskRequest struct {
	Title        *string               `json:"title" binding:"omitempty,max=200"`
	Description  *string               `json:"description"`
	AssignedToID Optional[uint]        `json:"assigned_to_id"`
	Status       *models.Status        `json:"status"`
	Priority     *models.Priority      `json:"priority"`
	DueDate      Optional[models.Date] `json:"due_date"`
}

type AssignRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func loadTask(ctx context.Context, id uint) (models.Task, error) {
	var task models.Task

	err := db.DB.WithContext(ctx).
		Preload("Project").
		Preload("Project.Memberships").
		Preload("AssignedTo").
		First(&task, id).Error

	return task, notFound(err, "Task not found")
}

func taskParam(ctx *gin.Context) (models.Task, bool) {
	id, ok := idParam(ctx, "id")

	if !ok {
		return models.Task{}, false
	}

	task, err := loadTask(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return models.Task{}, false
	}

	return task, true
}

// reachableTaskParam is taskParam for mutations: tasks the caller cannot
// reach are reported as missing rather than forbidden.
func reachableTaskParam(ctx *gin.Context, principal policy.Principal) (models.Task, bool) {
	task, ok := taskParam(ctx)

	if !ok {
		return models.Task{}, false
	}

	if !policy.CanReachTask(principal, task) {
		respondError(ctx, apperr.NotFound("Task not found"))
		return models.Task{}, false
	}

	return task, true
}

func respondTask(ctx *gin.Context, status int, id uint) {
	task, err := loadTask(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(status, types.NewTaskResponse(task))
}

// refreshCounters rewrites the cached dashboard counters of each user.
// Failures are logged; the counters are recomputed on the next change.
func refreshCounters(ctx context.Context, userIDs ...uint) {
	seen := make(map[uint]bool, len(userIDs))

	for _, id := range userIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true

		if err := stats.RefreshUserCounters(ctx, db.DB, id); err != nil {
			log.Printf("Failed to refresh counters for user %d: %v", id, err)
		}
	}
}

func assigneeID(task models.Task) uint {
	if task.AssignedToID == nil {
		return 0
	}
	return *task.AssignedToID
}

func findAssignee(tx *gorm.DB, id uint) (models.User, error) {
	var user models.User

	if err := tx.First(&user, id).Error; err != nil {
		return models.User{}, notFound(err, "Assignee not found")
	}

	return user, nil
}

func CreateTask(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body CreateTaskRequest

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

	priority := body.Priority

	if priority == "" {
		priority = models.PriorityMedium
	}

	if !status.Valid() {
		respondError(ctx, apperr.Invalid("Invalid status"))
		return
	}

	if !priority.Valid() {
		respondError(ctx, apperr.Invalid("Invalid priority"))
		return
	}

	var project models.Project

	if err := db.DB.Preload("Memberships").First(&project, body.Project).Error; err != nil {
		respondError(ctx, notFound(err, "Project not found"))
		return
	}

	if !policy.CanCreateTask(user.Principal(), project) {
		respondError(ctx, apperr.NotFound("Project not found"))
		return
	}

	task := models.Task{
		Title:        title,
		Description:  body.Description,
		ProjectID:    project.ID,
		AssignedToID: body.AssignedToID,
		Status:       status,
		Priority:     priority,
		DueDate:      body.DueDate,
	}

	var notifications []models.Notification

	err := db.DB.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if task.AssignedToID != nil {
			if _, err := findAssignee(tx, *task.AssignedToID); err != nil {
				return apperr.Invalid("Assignee not found")
			}
		}

		if err := tx.Omit(clause.Associations).Create(&task).Error; err != nil {
			return err
		}

		notifications = Notifier.OnTaskAssigned(ctx.Request.Context(), tx, task, project.Title, user.Model())
		return nil
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	Notifier.Push(notifications)
	refreshCounters(ctx.Request.Context(), assigneeID(task))

	respondTask(ctx, http.StatusCreated, task.ID)
}

func ListTasks(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	query := db.DB.WithContext(ctx.Request.Context()).Scopes(policy.TaskScope(user.Principal()))

	projectID, hasProject, err := utils.GetIDQuery(ctx, "project")

	if err != nil {
		respondError(ctx, err)
		return
	}

	if hasProject {
		query = query.Where("tasks.project_id = ?", projectID)
	}

	if raw := ctx.Query("status"); raw != "" {
		status := models.Status(strings.ToUpper(raw))

		if !status.Valid() {
			respondError(ctx, apperr.Invalid("Invalid status"))
			return
		}

		query = query.Where("tasks.status = ?", status)
	}

	var tasks []models.Task

	if err := query.Preload("Project").Preload("AssignedTo").Order("tasks.id").Find(&tasks).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponses(tasks))
}

func GetTask(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	task, ok := taskParam(ctx)

	if !ok {
		return
	}

	if !policy.CanViewTask(user.Principal(), task) {
		respondError(ctx, apperr.NotFound("Task not found"))
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(task))
}

func UpdateTask(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body UpdateTaskRequest

	if !bindJSON(ctx, &body) {
		return
	}

	principal := user.Principal()

	task, ok := reachableTaskParam(ctx, principal)

	if !ok {
		return
	}

	if !policy.CanUpdateTask(principal, task.Project) {
		respondError(ctx, apperr.Forbidden("You do not have permission to update this task"))
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

	if body.Status != nil && *body.Status != task.Status {
		if !body.Status.Valid() {
			respondError(ctx, apperr.Invalid("Invalid status"))
			return
		}
		if !policy.CanUpdateTaskStatus(principal, task) {
			respondError(ctx, apperr.Forbidden("Only the assignee or an admin can change the task status"))
			return
		}
		updates["status"] = *body.Status
	}

	if body.Priority != nil {
		if !body.Priority.Valid() {
			respondError(ctx, apperr.Invalid("Invalid priority"))
			return
		}
		updates["priority"] = *body.Priority
	}

	if body.DueDate.Set {
		updates["due_date"] = body.DueDate.Value
	}

	previousAssignee := assigneeID(task)
	reassigned := body.AssignedToID.Set && uintValue(body.AssignedToID.Value) != previousAssignee

	if reassigned {
		updates["assigned_to_id"] = body.AssignedToID.Value
	}

	var notifications []models.Notification

	err := db.DB.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if reassigned && body.AssignedToID.Value != nil {
			if _, err := findAssignee(tx, *body.AssignedToID.Value); err != nil {
				return apperr.Invalid("Assignee not found")
			}
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
			return err
		}

		if reassigned && body.AssignedToID.Value != nil {
			task.AssignedToID = body.AssignedToID.Value
			if body.Title != nil {
				task.Title = updates["title"].(string)
			}
			notifications = Notifier.OnTaskAssigned(ctx.Request.Context(), tx, task, task.Project.Title, user.Model())
		}

		return nil
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	Notifier.Push(notifications)

	if reassigned || updates["status"] != nil || body.DueDate.Set {
		refreshCounters(ctx.Request.Context(), previousAssignee, uintValue(body.AssignedToID.Value))
	}

	respondTask(ctx, http.StatusOK, task.ID)
}

func DeleteTask(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	task, ok := reachableTaskParam(ctx, user.Principal())

	if !ok {
		return
	}

	if !policy.CanDeleteTask(user.Principal(), task.Project) {
		respondError(ctx, apperr.Forbidden("Only the project owner can delete tasks"))
		return
	}

	if err := db.DB.WithContext(ctx.Request.Context()).Delete(&models.Task{}, task.ID).Error; err != nil {
		respondError(ctx, err)
		return
	}

	refreshCounters(ctx.Request.Context(), assigneeID(task))

	ctx.Status(http.StatusNoContent)
}

func UpdateTaskStatus(ctx *gin.Context) {
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

	task, ok := reachableTaskParam(ctx, user.Principal())

	if !ok {
		return
	}

	if !policy.CanUpdateTaskStatus(user.Principal(), task) {
		respondError(ctx, apperr.Forbidden("Only the assignee or an admin can change the task status"))
		return
	}

	err := db.DB.WithContext(ctx.Request.Context()).
		Model(&models.Task{}).
		Where("id = ?", task.ID).
		Update("status", body.Status).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	refreshCounters(ctx.Request.Context(), assigneeID(task))

	respondTask(ctx, http.StatusOK, task.ID)
}

func AssignTask(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body AssignRequest

	if !bindJSON(ctx, &body) {
		return
	}

	task, ok := reachableTaskParam(ctx, user.Principal())

	if !ok {
		return
	}

	if !policy.CanUpdateTask(user.Principal(), task.Project) {
		respondError(ctx, apperr.Forbidden("You do not have permission to assign this task"))
		return
	}

	previousAssignee := assigneeID(task)

	var notifications []models.Notification

	err := db.DB.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		assignee, err := findAssignee(tx, body.UserID)

		if err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Update("assigned_to_id", assignee.ID).Error; err != nil {
			return err
		}

		task.AssignedToID = &assignee.ID
		notifications = Notifier.OnTaskAssigned(ctx.Request.Context(), tx, task, task.Project.Title, user.Model())
		return nil
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	Notifier.Push(notifications)
	refreshCounters(ctx.Request.Context(), previousAssignee, body.UserID)

	respondTask(ctx, http.StatusOK, task.ID)
}

func MyTasks(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	userID, ok := idParam(ctx, "user_id")

	if !ok {
		return
	}

	if !policy.CanManageUser(user.Principal(), userID) {
		respondError(ctx, apperr.Forbidden("You can only view your own tasks"))
		return
	}

	var tasks []models.Task

	err := db.DB.WithContext(ctx.Request.Context()).
		Where("assigned_to_id = ?", userID).
		Preload("Project").
		Preload("AssignedTo").
		Order("tasks.id").
		Find(&tasks).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponses(tasks))
}

func uintValue(v *uint) uint {
	if v == nil {
		return 0
	}
	return *v
}
