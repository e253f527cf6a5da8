package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/apperr"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/notify"
	"github.com/monocle-dev/taskboard/internal/policy"
)

func ListNotifications(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	var notifications []models.Notification

	err := db.DB.WithContext(ctx.Request.Context()).
		Scopes(policy.NotificationScope(user.Principal())).
		Order("notifications.created_at DESC, notifications.id DESC").
		Find(&notifications).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]notify.View, 0, len(notifications))

	for _, n := range notifications {
		response = append(response, notify.ViewOf(n))
	}

	ctx.JSON(http.StatusOK, response)
}

func MarkNotificationRead(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	id, ok := idParam(ctx, "id")

	if !ok {
		return
	}

	var notification models.Notification

	if err := db.DB.WithContext(ctx.Request.Context()).First(&notification, id).Error; err != nil {
		respondError(ctx, notFound(err, "Notification not found"))
		return
	}

	if !policy.CanViewNotification(user.Principal(), notification) {
		respondError(ctx, apperr.NotFound("Notification not found"))
		return
	}

	if !notification.IsRead {
		err := db.DB.WithContext(ctx.Request.Context()).
			Model(&models.Notification{}).
			Where("id = ?", notification.ID).
			Update("is_read", true).Error

		if err != nil {
			respondError(ctx, err)
			return
		}

		notification.IsRead = true
	}

	ctx.JSON(http.StatusOK, notify.ViewOf(notification))
}
