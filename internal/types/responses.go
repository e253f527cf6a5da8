package types

import (
	"time"

	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/policy"
)

type UserResponse struct {
	ID             uint        `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Role           models.Role `json:"role"`
	IsApproved     bool        `json:"is_approved"`
	TasksCompleted int         `json:"tasks_completed"`
	TasksOnTime    int         `json:"tasks_on_time"`
	TasksDelayed   int         `json:"tasks_delayed"`
	Efficiency     float64     `json:"efficiency"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		IsApproved:     u.IsApproved,
		TasksCompleted: u.TasksCompleted,
		TasksOnTime:    u.TasksOnTime,
		TasksDelayed:   u.TasksDelayed,
		Efficiency:     u.Efficiency,
	}
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

type TaskResponse struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Project      uint            `json:"project"`
	ProjectTitle string          `json:"project_title"`
	AssignedTo   *UserResponse   `json:"assigned_to"`
	Status       models.Status   `json:"status"`
	Priority     models.Priority `json:"priority"`
	DueDate      *models.Date    `json:"due_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewTaskResponse expects t.Project and t.AssignedTo to be preloaded when
// they should appear in the output.
func NewTaskResponse(t models.Task) TaskResponse {
	resp := TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Project:      t.ProjectID,
		ProjectTitle: t.Project.Title,
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.AssignedTo != nil {
		assignee := NewUserResponse(*t.AssignedTo)
		resp.AssignedTo = &assignee
	}
	return resp
}

func NewTaskResponses(tasks []models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

type ProjectResponse struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      models.Status  `json:"status"`
	StartDate   models.Date    `json:"start_date"`
	Deadline    models.Date    `json:"deadline"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Owner       UserResponse   `json:"owner"`
	Members     []UserResponse `json:"members"`
	Tasks       []TaskResponse `json:"tasks"`
}

// NewProjectResponse expects Owner, Memberships.User and Tasks.AssignedTo to
// be preloaded. Only tasks viewer may view are embedded.
func NewProjectResponse(p models.Project, viewer policy.Principal) ProjectResponse {
	members := make([]UserResponse, 0, len(p.Memberships))
	for _, m := range p.Memberships {
		members = append(members, NewUserResponse(m.User))
	}

	tasks := make([]TaskResponse, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if !policy.CanViewTask(viewer, t) {
			continue
		}
		t.Project.Title = p.Title
		tasks = append(tasks, NewTaskResponse(t))
	}

	return ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   p.StartDate,
		Deadline:    p.Deadline,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Owner:       NewUserResponse(p.Owner),
		Members:     members,
		Tasks:       tasks,
	}
}

type CommentResponse struct {
	ID        uint         `json:"id"`
	Task      uint         `json:"task"`
	Author    UserResponse `json:"author"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewCommentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Task:      c.TaskID,
		Author:    NewUserResponse(c.Author),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
