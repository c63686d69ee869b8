package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hearing represents a scheduled court or ALJ hearing on a matter
type Hearing struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MatterID string `gorm:"type:uuid;not null;index" json:"matter_id"`
	Matter   Matter `gorm:"foreignKey:MatterID" json:"matter,omitempty"`

	Title     string    `gorm:"not null" json:"title"`
	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Courtroom    string `json:"courtroom"`
	Judge        string `json:"judge"` // judge or ALJ name
	IsSSAHearing bool   `gorm:"not null;default:false" json:"is_ssa_hearing"`
	Notes        string `gorm:"type:text" json:"notes"`
}

// BeforeCreate hook to generate UUID
func (h *Hearing) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Hearing model
func (Hearing) TableName() string {
	return "hearings"
}
