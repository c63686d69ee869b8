package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deadline status constants
const (
	DeadlineStatusOpen      = "OPEN"
	DeadlineStatusCompleted = "COMPLETED"
	DeadlineStatusPastDue   = "PAST_DUE"
)

// Deadline source constants
const (
	DeadlineSourceRule       = "RULE"
	DeadlineSourceCourtOrder = "COURT_ORDER"
	DeadlineSourceSSA        = "SSA"
	DeadlineSourceManual     = "MANUAL"
)

// Deadline represents a dated obligation on a matter. days_until_due is always
// computed from DueAt, never stored.
type Deadline struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MatterID string `gorm:"type:uuid;not null;index" json:"matter_id"`
	Matter   Matter `gorm:"foreignKey:MatterID" json:"matter,omitempty"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Source      string `gorm:"not null;default:MANUAL" json:"source"`

	DueAt       time.Time  `gorm:"not null;index" json:"due_at"`
	Status      string     `gorm:"not null;default:OPEN;index" json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Reminder tracking for the background sweep
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`

	// Relationships
	Notes []DeadlineNote `gorm:"foreignKey:DeadlineID" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *Deadline) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Deadline model
func (Deadline) TableName() string {
	return "deadlines"
}

// IsCompleted checks if the deadline has been completed
func (d *Deadline) IsCompleted() bool {
	return d.Status == DeadlineStatusCompleted
}

// IsValidDeadlineStatus checks if the status is valid
func IsValidDeadlineStatus(status string) bool {
	switch status {
	case DeadlineStatusOpen, DeadlineStatusCompleted, DeadlineStatusPastDue:
		return true
	default:
		return false
	}
}

// IsValidDeadlineSource checks if the source is valid
func IsValidDeadlineSource(source string) bool {
	switch source {
	case DeadlineSourceRule, DeadlineSourceCourtOrder, DeadlineSourceSSA, DeadlineSourceManual:
		return true
	default:
		return false
	}
}

// DeadlineNote is a free-form note attached to a deadline
type DeadlineNote struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DeadlineID string `gorm:"type:uuid;not null;index" json:"deadline_id"`
	AuthorID   string `gorm:"type:uuid;not null" json:"author_id"`
	Author     User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Body       string `gorm:"type:text;not null" json:"body"`
}

// BeforeCreate hook to generate UUID
func (n *DeadlineNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for DeadlineNote model
func (DeadlineNote) TableName() string {
	return "deadline_notes"
}
