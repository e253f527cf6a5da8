package models

import "time"

// RevokedToken records a refresh token invalidated by logout. Rows past
// ExpiresAt are pruned by the scheduler.
type RevokedToken struct {
	BaseModel

	JTI       string    `gorm:"uniqueIndex;not null;size:64"`
	UserID    uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
