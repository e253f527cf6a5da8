package models

// Status is shared by projects and tasks.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Project struct {
	BaseModel

	Title       string `gorm:"not null;size:200"`
	Description string
	Status      Status `gorm:"not null;size:20;default:TODO"`
	StartDate   Date   `gorm:"not null"`
	Deadline    Date   `gorm:"not null"`
	OwnerID     uint   `gorm:"not null;index"`

	// Relationships
	Owner       User                `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Memberships []ProjectMembership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tasks       []Task              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// MemberIDs lists the user IDs of the loaded memberships.
func (p Project) MemberIDs() []uint {
	ids := make([]uint, 0, len(p.Memberships))
	for _, m := range p.Memberships {
		ids = append(ids, m.UserID)
	}
	return ids
}

// HasMember reports whether userID appears in the loaded memberships.
func (p Project) HasMember(userID uint) bool {
	for _, m := range p.Memberships {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
