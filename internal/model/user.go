package model

import "time"

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;default:'student'" json:"role"`
	ClassName string    `gorm:"size:50;index" json:"className"` // cohort an exam is published to
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// Identity is the caller identity every core operation receives explicitly.
// Services never reach into session state themselves.
type Identity struct {
	UserID uint
	Role   UserRole
}

// Identity projects the stored user onto the caller identity services take.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}

func (i Identity) IsAdmin() bool   { return i.Role == Admin }
func (i Identity) IsTeacher() bool { return i.Role == Teacher }
func (i Identity) IsStudent() bool { return i.Role == Student }
