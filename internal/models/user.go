package models

type Role string

const (
	RoleAdmin Role = "ADMIN"
	// RoleProjectManager is accepted for stored data but grants nothing
	// beyond RoleTeamMember.
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleTeamMember     Role = "TEAM_MEMBER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleTeamMember:
		return true
	}
	return false
}

type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;not null;size:150"`
	Email        string `gorm:"uniqueIndex;not null"`
	FirstName    string
	LastName     string
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"not null;size:20;default:TEAM_MEMBER"`
	IsApproved   bool   `gorm:"not null;default:false"`

	// Cached copies of the dashboard figures, rewritten on every task status
	// or assignment change.
	TasksCompleted int     `gorm:"not null;default:0"`
	TasksOnTime    int     `gorm:"not null;default:0"`
	TasksDelayed   int     `gorm:"not null;default:0"`
	Efficiency     float64 `gorm:"not null;default:0"`

	// Relationships
	OwnedProjects      []Project           `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ProjectMemberships []ProjectMembership `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	AssignedTasks      []Task              `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Comments           []Comment           `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Notifications      []Notification      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// DisplayName is the name shown on dashboards.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
