// Package testkit holds helpers shared by package tests.
package testkit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/models"
	"gorm.io/gorm"
)

// OpenDB returns a migrated in-memory sqlite database private to the test and
// installs it as db.DB for the duration of the test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection keeps the shared in-memory database alive and avoids
	// sqlite table locks between pooled connections.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	previous := db.DB
	db.DB = conn
	t.Cleanup(func() {
		db.DB = previous
		sqlDB.Close()
	})

	return conn
}

// CreateUser inserts an approved user with password "password123".
func CreateUser(t *testing.T, conn *gorm.DB, username string, role models.Role) models.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    strings.ToUpper(username[:1]) + username[1:],
		PasswordHash: hash,
		Role:         role,
		IsApproved:   true,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// CreateProject inserts a project owned by owner with the given members.
func CreateProject(t *testing.T, conn *gorm.DB, title string, owner models.User, members ...models.User) models.Project {
	t.Helper()

	project := models.Project{
		Title:     title,
		Status:    models.StatusTodo,
		StartDate: models.NewDate(2026, 1, 1),
		Deadline:  models.NewDate(2026, 12, 31),
		OwnerID:   owner.ID,
	}
	if err := conn.Create(&project).Error; err != nil {
		t.Fatalf("create project %s: %v", title, err)
	}
	for _, m := range members {
		membership := models.ProjectMembership{ProjectID: project.ID, UserID: m.ID}
		if err := conn.Create(&membership).Error; err != nil {
			t.Fatalf("add member %s: %v", m.Username, err)
		}
		project.Memberships = append(project.Memberships, membership)
	}
	return project
}

// CreateTask inserts a task in project, optionally assigned.
func CreateTask(t *testing.T, conn *gorm.DB, title string, project models.Project, assignee *models.User, status models.Status, due *models.Date) models.Task {
	t.Helper()

	task := models.Task{
		Title:     title,
		ProjectID: project.ID,
		Status:    status,
		Priority:  models.PriorityMedium,
		DueDate:   due,
	}
	if assignee != nil {
		id := assignee.ID
		task.AssignedToID = &id
	}
	if err := conn.Create(&task).Error; err != nil {
		t.Fatalf("create task %s: %v", title, err)
	}
	return task
}
