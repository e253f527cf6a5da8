package models

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	BaseModel

	Title        string `gorm:"not null;size:200"`
	Description  string
	ProjectID    uint     `gorm:"not null;index"`
	AssignedToID *uint    `gorm:"index"`
	Status       Status   `gorm:"not null;size:20;default:TODO;index"`
	Priority     Priority `gorm:"not null;size:20;default:MEDIUM"`
	DueDate      *Date

	// Relationships
	Project    Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	AssignedTo *User     `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Comments   []Comment `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// IsAssignedTo reports whether the task is assigned to userID.
func (t Task) IsAssignedTo(userID uint) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}
