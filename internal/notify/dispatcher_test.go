package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/testkit"
	"gorm.io/gorm"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages map[uint]int
}

func (f *fakePublisher) Publish(userID uint, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messages == nil {
		f.messages = make(map[uint]int)
	}
	f.messages[userID]++
}

func TestOnProjectCreatedSkipsActor(t *testing.T) {
	conn := testkit.OpenDB(t)
	ctx := context.Background()

	owner := testkit.CreateUser(t, conn, "owner", models.RoleTeamMember)
	ann := testkit.CreateUser(t, conn, "ann", models.RoleTeamMember)
	ben := testkit.CreateUser(t, conn, "ben", models.RoleTeamMember)
	project := testkit.CreateProject(t, conn, "Atlas", owner, ann, ben)

	pub := &fakePublisher{}
	d := NewDispatcher(pub)

	var created []models.Notification
	err := conn.Transaction(func(tx *gorm.DB) error {
		created = d.OnProjectCreated(ctx, tx, project, []models.User{owner, ann, ben}, owner)
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	d.Push(created)

	if len(created) != 2 {
		t.Fatalf("created %d notifications, want 2", len(created))
	}
	for _, n := range created {
		if n.UserID == owner.ID {
			t.Fatal("actor notified about own project")
		}
		if n.Type != models.NotificationProject {
			t.Fatalf("type = %s, want project", n.Type)
		}
	}
	if pub.messages[ann.ID] != 1 || pub.messages[ben.ID] != 1 || pub.messages[owner.ID] != 0 {
		t.Fatalf("pushed = %v", pub.messages)
	}
}

func TestOnTaskAssigned(t *testing.T) {
	conn := testkit.OpenDB(t)
	ctx := context.Background()

	owner := testkit.CreateUser(t, conn, "owner", models.RoleTeamMember)
	ann := testkit.CreateUser(t, conn, "ann", models.RoleTeamMember)
	project := testkit.CreateProject(t, conn, "Atlas", owner, ann)
	d := NewDispatcher(nil)

	toAnn := testkit.CreateTask(t, conn, "Draft", project, &ann, models.StatusTodo, nil)
	if got := d.OnTaskAssigned(ctx, conn, toAnn, project.Title, owner); len(got) != 1 || got[0].UserID != ann.ID {
		t.Fatalf("assignment notifications = %+v", got)
	}

	self := testkit.CreateTask(t, conn, "Review", project, &owner, models.StatusTodo, nil)
	if got := d.OnTaskAssigned(ctx, conn, self, project.Title, owner); len(got) != 0 {
		t.Fatalf("self assignment produced %d notifications", len(got))
	}

	unassigned := testkit.CreateTask(t, conn, "Later", project, nil, models.StatusTodo, nil)
	if got := d.OnTaskAssigned(ctx, conn, unassigned, "", owner); len(got) != 0 {
		t.Fatalf("unassigned task produced %d notifications", len(got))
	}
}

func TestFailedNotificationDoesNotAbortTransaction(t *testing.T) {
	conn := testkit.OpenDB(t)
	ctx := context.Background()

	owner := testkit.CreateUser(t, conn, "owner", models.RoleTeamMember)
	ghost := models.User{Username: "ghost"}
	ghost.ID = 9999

	d := NewDispatcher(nil)
	var project models.Project
	err := conn.Transaction(func(tx *gorm.DB) error {
		project = models.Project{
			Title:     "Resilient",
			Status:    models.StatusTodo,
			StartDate: models.NewDate(2026, 1, 1),
			Deadline:  models.NewDate(2026, 2, 1),
			OwnerID:   owner.ID,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		if got := d.OnProjectCreated(ctx, tx, project, []models.User{ghost}, owner); len(got) != 0 {
			t.Errorf("notification for missing user reported as created")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	var count int64
	conn.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count)
	if count != 1 {
		t.Fatal("project was rolled back with the failed notification")
	}
	conn.Model(&models.Notification{}).Count(&count)
	if count != 0 {
		t.Fatalf("notifications = %d, want 0", count)
	}
}

func TestPushFansOutToEveryPublisher(t *testing.T) {
	first, second := &fakePublisher{}, &fakePublisher{}
	d := NewDispatcher(Publishers{first, second})

	d.Push([]models.Notification{{ID: 1, UserID: 4, Type: models.NotificationTask, Title: "t", Message: "m"}})

	if first.messages[4] != 1 || second.messages[4] != 1 {
		t.Fatalf("deliveries = %v and %v, want one each for user 4", first.messages, second.messages)
	}
}
