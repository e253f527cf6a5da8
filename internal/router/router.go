package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/config"
	"github.com/monocle-dev/taskboard/internal/handlers"
	"github.com/monocle-dev/taskboard/internal/middleware"
)

// handle registers path with and without a trailing slash.
func handle(g *gin.RouterGroup, methods []string, path string, h ...gin.HandlerFunc) {
	for _, method := range methods {
		g.Handle(method, path, h...)
		g.Handle(method, path+"/", h...)
	}
}

var (
	get     = []string{http.MethodGet}
	post    = []string{http.MethodPost}
	put     = []string{http.MethodPut}
	patch   = []string{http.MethodPatch}
	del     = []string{http.MethodDelete}
	replace = []string{http.MethodPut, http.MethodPatch}
)

func NewRouter(cfg config.Config) *gin.Engine {
	r := gin.Default()
	r.RedirectTrailingSlash = false

	origins := cfg.Origins()
	handlers.AllowedOrigins = origins

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		handle(api, get, "/health", handlers.HealthCheck)
		handle(api, post, "/register", handlers.Register)
		handle(api, post, "/login", handlers.Login)
		handle(api, post, "/token/refresh", handlers.RefreshToken)
	}

	authed := api.Group("", middleware.AuthMiddleware())
	{
		handle(authed, post, "/logout", handlers.Logout)
		handle(authed, get, "/me", handlers.Me)
		handle(authed, get, "/ws/notifications", handlers.NotificationSocket)
		handle(authed, get, "/dashboard/stats", handlers.DashboardStats)

		handle(authed, get, "/projects", handlers.ListProjects)
		handle(authed, post, "/projects", handlers.CreateProject)
		handle(authed, get, "/projects/:id", handlers.GetProject)
		handle(authed, replace, "/projects/:id", handlers.UpdateProject)
		handle(authed, del, "/projects/:id", handlers.DeleteProject)
		handle(authed, post, "/projects/:id/add_member", handlers.AddMember)
		handle(authed, post, "/projects/:id/remove_member", handlers.RemoveMember)
		handle(authed, []string{http.MethodPost, http.MethodPatch}, "/projects/:id/update_status", handlers.UpdateProjectStatus)

		handle(authed, get, "/tasks", handlers.ListTasks)
		handle(authed, post, "/tasks", handlers.CreateTask)
		handle(authed, get, "/tasks/my-tasks/:user_id", handlers.MyTasks)
		handle(authed, get, "/tasks/:id", handlers.GetTask)
		handle(authed, replace, "/tasks/:id", handlers.UpdateTask)
		handle(authed, del, "/tasks/:id", handlers.DeleteTask)
		handle(authed, patch, "/tasks/:id/update_status", handlers.UpdateTaskStatus)
		handle(authed, patch, "/tasks/:id/update-status", handlers.UpdateTaskStatus)
		handle(authed, post, "/tasks/:id/assign", handlers.AssignTask)

		handle(authed, get, "/comments", handlers.ListComments)
		handle(authed, post, "/comments", handlers.CreateComment)
		handle(authed, get, "/comments/:id", handlers.GetComment)
		handle(authed, replace, "/comments/:id", handlers.UpdateComment)
		handle(authed, del, "/comments/:id", handlers.DeleteComment)

		handle(authed, get, "/notifications", handlers.ListNotifications)
		handle(authed, patch, "/notifications/:id/mark_read", handlers.MarkNotificationRead)

		handle(authed, get, "/users/status", handlers.UsersStatus)
		handle(authed, put, "/users/:id/approval", handlers.SetUserApproval)
		handle(authed, del, "/users/:id/delete", handlers.DeleteUser)
		handle(authed, put, "/users/:id/update-email", handlers.UpdateEmail)
		handle(authed, put, "/users/:id/change-password", handlers.ChangePassword)
		handle(authed, get, "/team-members", handlers.TeamMembers)
	}

	return r
}
