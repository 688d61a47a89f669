package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. The set is closed: authorization middleware only understands
// these two values.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account in the system. The password hash is never
// serialized; handlers can return the struct directly.
type User struct {
	gorm.Model

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'user'" json:"role"`

	// Touched by the auth middleware on every authenticated request.
	LastActivity *time.Time `json:"last_activity,omitempty"`

	// Relations
	TasksAssigned []Task  `gorm:"foreignKey:AssignedToID" json:"tasksAssigned,omitempty"`
	TasksCreated  []Task  `gorm:"foreignKey:CreatedByID" json:"tasksCreated,omitempty"`
	Teams         []*Team `gorm:"many2many:team_members" json:"teams,omitempty"`
}
