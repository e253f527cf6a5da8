package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/apperr"
	"github.com/monocle-dev/taskboard/internal/middleware"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/policy"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/monocle-dev/taskboard/internal/utils"
	"gorm.io/gorm/clause"
)

type CreateCommentRequest struct {
	Task    uint   `json:"task" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// loadComment returns the comment in :id when the caller may access its
// task's project.
func loadComment(ctx *gin.Context, user middleware.AuthenticatedUser) (models.Comment, bool) {
	id, ok := idParam(ctx, "id")

	if !ok {
		return models.Comment{}, false
	}

	var comment models.Comment

	err := db.DB.WithContext(ctx.Request.Context()).
		Preload("Author").
		Preload("Task.Project.Memberships").
		First(&comment, id).Error

	if err != nil {
		respondError(ctx, notFound(err, "Comment not found"))
		return models.Comment{}, false
	}

	if !policy.CanAccessComment(user.Principal(), comment.Task.Project) {
		respondError(ctx, apperr.NotFound("Comment not found"))
		return models.Comment{}, false
	}

	return comment, true
}

func ListComments(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	query := db.DB.WithContext(ctx.Request.Context()).Scopes(policy.CommentScope(user.Principal()))

	taskID, hasTask, err := utils.GetIDQuery(ctx, "task")

	if err != nil {
		respondError(ctx, err)
		return
	}

	if hasTask {
		query = query.Where("comments.task_id = ?", taskID)
	}

	var comments []models.Comment

	if err := query.Preload("Author").Order("comments.id").Find(&comments).Error; err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.CommentResponse, 0, len(comments))

	for _, comment := range comments {
		response = append(response, types.NewCommentResponse(comment))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateComment(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body CreateCommentRequest

	if !bindJSON(ctx, &body) {
		return
	}

	content := strings.TrimSpace(body.Content)

	if content == "" {
		respondError(ctx, apperr.Invalid("Content is required"))
		return
	}

	task, err := loadTask(ctx.Request.Context(), body.Task)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if !policy.CanAccessComment(user.Principal(), task.Project) {
		respondError(ctx, apperr.NotFound("Task not found"))
		return
	}

	comment := models.Comment{
		TaskID:   task.ID,
		AuthorID: user.ID,
		Content:  content,
	}

	if err := db.DB.WithContext(ctx.Request.Context()).Omit(clause.Associations).Create(&comment).Error; err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewCommentResponse(comment))
}

func GetComment(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	comment, ok := loadComment(ctx, user)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, types.NewCommentResponse(comment))
}

func UpdateComment(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var body UpdateCommentRequest

	if !bindJSON(ctx, &body) {
		return
	}

	content := strings.TrimSpace(body.Content)

	if content == "" {
		respondError(ctx, apperr.Invalid("Content is required"))
		return
	}

	comment, ok := loadComment(ctx, user)

	if !ok {
		return
	}

	err := db.DB.WithContext(ctx.Request.Context()).
		Model(&models.Comment{}).
		Where("id = ?", comment.ID).
		Update("content", content).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := db.DB.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewCommentResponse(comment))
}

func DeleteComment(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	comment, ok := loadComment(ctx, user)

	if !ok {
		return
	}

	if err := db.DB.WithContext(ctx.Request.Context()).Delete(&models.Comment{}, comment.ID).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
