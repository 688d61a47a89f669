package models

import "time"

// Team groups users and their assigned tasks. It deliberately does not embed
// gorm.Model: trash is an explicit flag so trashed teams stay queryable, and
// gorm's DeletedAt would hide them from every query instead.
type Team struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	Priority    string `gorm:"default:'Medium'" json:"priority"`

	Deadline *time.Time `json:"deadline,omitempty"`

	// Soft delete. IsDeleted gates visibility in listings; DeletedAt feeds
	// the trash retention worker.
	IsDeleted bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// Relations
	Members []User `gorm:"many2many:team_members" json:"members,omitempty"`
	Tasks   []Task `gorm:"foreignKey:TeamID" json:"tasks,omitempty"`
}
