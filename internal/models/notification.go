package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationProject NotificationType = "project"
	NotificationTask    NotificationType = "task"
)

type Notification struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	UserID  uint             `gorm:"not null;index"`
	Type    NotificationType `gorm:"not null;size:10;default:task"`
	Title   string           `gorm:"not null;size:200"`
	Message string           `gorm:"not null"`
	IsRead  bool             `gorm:"not null;default:false"`
	Data    datatypes.JSON   // {"project_id": ..., "task_id": ...}

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
