package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/monocle-dev/taskboard/internal/realtime"
)

// AllowedOrigins lists the browser origins that may open a notification
// socket. Requests without an Origin header are always accepted.
var AllowedOrigins []string

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range AllowedOrigins {
			if origin == allowed {
				return true
			}
		}
		return false
	},
}

// NotificationSocket upgrades the request and streams the caller's new
// notifications until the client disconnects.
func NotificationSocket(c *gin.Context) {
	user, ok := currentUser(c)

	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)

	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	realtime.Default.Serve(user.ID, conn)
}
