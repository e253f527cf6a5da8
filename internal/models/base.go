package models

import "time"

// BaseModel is gorm.Model without soft deletes: rows are removed for real so
// that foreign key cascades apply.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
