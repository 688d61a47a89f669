package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Task priorities are stored title-cased, statuses lowercased. Both match the
// values the SPA renders verbatim.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"

	StatusNotStarted = "not started"
	StatusInProgress = "in progress"
	StatusCompleted  = "completed"
)

// Task is a unit of work created by a user for themself, or assigned to a
// team member by an admin.
type Task struct {
	gorm.Model

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Priority    string `gorm:"default:'Medium'" json:"priority"`
	Status      string `gorm:"default:'not started'" json:"status"`

	AssignedToID uint       `gorm:"index" json:"assigned_to"`
	CreatedByID  uint       `gorm:"index" json:"created_by"` // immutable after creation
	TeamID       *uint      `gorm:"index" json:"team_id,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// NormalizePriority title-cases p and reports whether the result is a valid
// priority. An empty priority defaults to Medium.
func NormalizePriority(p string) (string, bool) {
	if p == "" {
		return PriorityMedium, true
	}
	formatted := strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	switch formatted {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return formatted, true
	}
	return "", false
}

// NormalizeStatus lowercases s and reports whether the result is a valid
// status.
func NormalizeStatus(s string) (string, bool) {
	formatted := strings.ToLower(s)
	switch formatted {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return formatted, true
	}
	return "", false
}
