// Package notify writes notification rows for membership and assignment
// events and pushes them to connected recipients.
//
// Rows are written inside the caller's transaction, each in its own
// savepoint: a failed insert is logged and rolled back on its own without
// failing the triggering write. Push happens only after the caller commits.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/monocle-dev/taskboard/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Publisher delivers a message addressed to a user.
type Publisher interface {
	Publish(userID uint, message any)
}

// Publishers fans a message out to each publisher in order.
type Publishers []Publisher

func (ps Publishers) Publish(userID uint, message any) {
	for _, p := range ps {
		p.Publish(userID, message)
	}
}

// Message is the envelope pushed for every new notification.
type Message struct {
	Type         string `json:"type"`
	UserID       uint   `json:"-"`
	Notification View   `json:"notification"`
}

type Dispatcher struct {
	publisher Publisher
}

func NewDispatcher(publisher Publisher) *Dispatcher {
	return &Dispatcher{publisher: publisher}
}

// View is the client representation of a notification.
type View struct {
	ID        uint                    `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	Data      datatypes.JSON          `json:"data,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

func ViewOf(n models.Notification) View {
	return View{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		Data:      n.Data,
		CreatedAt: n.CreatedAt,
	}
}

// OnProjectCreated notifies every initial member except the actor.
func (d *Dispatcher) OnProjectCreated(ctx context.Context, tx *gorm.DB, project models.Project, added []models.User, actor models.User) []models.Notification {
	return d.OnMembersAdded(ctx, tx, project, added, actor)
}

// OnMembersAdded notifies each newly added member except the actor.
func (d *Dispatcher) OnMembersAdded(ctx context.Context, tx *gorm.DB, project models.Project, added []models.User, actor models.User) []models.Notification {
	var created []models.Notification

	for _, member := range added {
		if member.ID == actor.ID {
			continue
		}

		n := models.Notification{
			UserID:  member.ID,
			Type:    models.NotificationProject,
			Title:   "Added to project",
			Message: fmt.Sprintf("%s added you to the project %q", actor.DisplayName(), project.Title),
			Data:    payload(map[string]uint{"project_id": project.ID}),
		}
		if d.create(ctx, tx, &n) {
			created = append(created, n)
		}
	}

	return created
}

// OnTaskAssigned notifies the assignee unless they assigned the task
// themselves. projectTitle may be empty.
func (d *Dispatcher) OnTaskAssigned(ctx context.Context, tx *gorm.DB, task models.Task, projectTitle string, actor models.User) []models.Notification {
	if task.AssignedToID == nil || *task.AssignedToID == actor.ID {
		return nil
	}

	message := fmt.Sprintf("%s assigned you the task %q", actor.DisplayName(), task.Title)
	if projectTitle != "" {
		message += fmt.Sprintf(" in %q", projectTitle)
	}

	n := models.Notification{
		UserID:  *task.AssignedToID,
		Type:    models.NotificationTask,
		Title:   "New task assigned",
		Message: message,
		Data:    payload(map[string]uint{"project_id": task.ProjectID, "task_id": task.ID}),
	}
	if !d.create(ctx, tx, &n) {
		return nil
	}
	return []models.Notification{n}
}

// Push sends committed notifications to their recipients' live connections.
func (d *Dispatcher) Push(notifications []models.Notification) {
	if d == nil || d.publisher == nil {
		return
	}
	for _, n := range notifications {
		d.publisher.Publish(n.UserID, Message{
			Type:         "notification",
			UserID:       n.UserID,
			Notification: ViewOf(n),
		})
	}
}

func (d *Dispatcher) create(ctx context.Context, tx *gorm.DB, n *models.Notification) bool {
	err := tx.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(n).Error
	})
	if err != nil {
		log.Printf("Failed to create %s notification for user %d: %v", n.Type, n.UserID, err)
		return false
	}
	return true
}

func payload(v map[string]uint) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
