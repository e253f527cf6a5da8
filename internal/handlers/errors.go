package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/apperr"
	"github.com/monocle-dev/taskboard/internal/middleware"
	"github.com/monocle-dev/taskboard/internal/notify"
	"github.com/monocle-dev/taskboard/internal/realtime"
	"github.com/monocle-dev/taskboard/internal/utils"
	"gorm.io/gorm"
)

// Notifier records notifications for membership and assignment events and
// pushes them over the realtime hub.
var Notifier = notify.NewDispatcher(realtime.Default)

func respondError(ctx *gin.Context, err error) {
	status := apperr.HTTPStatus(err)

	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
		ctx.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(status, gin.H{"error": err.Error()})
}

// notFound turns gorm's missing-row error into a not_found error carrying
// message and passes every other error through.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(message)
	}
	return err
}

func bindJSON(ctx *gin.Context, v any) bool {
	if err := ctx.ShouldBindJSON(v); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return false
	}
	return true
}

func currentUser(ctx *gin.Context) (middleware.AuthenticatedUser, bool) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return middleware.AuthenticatedUser{}, false
	}

	return user, true
}

func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := utils.GetIDParam(ctx, name)

	if err != nil {
		respondError(ctx, err)
		return 0, false
	}

	return id, true
}
