package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/stats"
)

func DashboardStats(ctx *gin.Context) {
	user, ok := currentUser(ctx)

	if !ok {
		return
	}

	dashboard, err := stats.Load(ctx.Request.Context(), db.DB, user.Principal())

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dashboard)
}
