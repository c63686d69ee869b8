package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeEntry records billable work against a matter
type TimeEntry struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MatterID string `gorm:"type:uuid;not null;index" json:"matter_id"`
	Matter   Matter `gorm:"foreignKey:MatterID" json:"matter,omitempty"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Description string    `gorm:"type:text;not null" json:"description"`
	EntryDate   time.Time `gorm:"not null;index" json:"entry_date"`
	Hours       float64   `gorm:"not null" json:"hours"`
	Rate        float64   `gorm:"not null" json:"rate"`

	// Set when the entry is pulled onto an invoice
	InvoiceID *string `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
}

// BeforeCreate hook to generate UUID and default EntryDate
func (t *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.EntryDate.IsZero() {
		t.EntryDate = time.Now()
	}
	return nil
}

// TableName specifies the table name for TimeEntry model
func (TimeEntry) TableName() string {
	return "time_entries"
}

// Amount returns the billable amount for the entry
func (t *TimeEntry) Amount() float64 {
	return t.Hours * t.Rate
}

// IsBilled reports whether the entry has been attached to an invoice
func (t *TimeEntry) IsBilled() bool {
	return t.InvoiceID != nil && *t.InvoiceID != ""
}
