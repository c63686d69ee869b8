package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeDeadline = "DEADLINE"
	NotificationTypeHearing  = "HEARING"
	NotificationTypeIntake   = "INTAKE"
	NotificationTypeBilling  = "BILLING"
	NotificationTypeSystem   = "SYSTEM"
)

type Notification struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Targeting: null user means every staff user sees it
	UserID *string `gorm:"type:uuid;index" json:"user_id,omitempty"`

	// Context
	MatterID *string `gorm:"type:uuid" json:"matter_id,omitempty"`

	// Content
	Type    string `gorm:"not null" json:"type"`
	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	LinkURL string `json:"link_url,omitempty"` // e.g., "/matters/{matter_id}"

	// Read tracking
	ReadAt *time.Time `json:"read_at,omitempty"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Matter *Matter `gorm:"foreignKey:MatterID" json:"matter,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
