package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Matter status constants
const (
	MatterStatusIntake  = "INTAKE"
	MatterStatusOpen    = "OPEN"
	MatterStatusPending = "PENDING"
	MatterStatusClosed  = "CLOSED"
)

// Practice area constants
const (
	PracticeAreaCriminal       = "CRIMINAL"
	PracticeAreaPersonalInjury = "PERSONAL_INJURY"
	PracticeAreaSSD            = "SSD"
)

// Fee model constants
const (
	FeeModelFlatRate    = "FLAT_RATE"
	FeeModelProgressive = "PROGRESSIVE"
)

// Matter represents a legal case/engagement belonging to a client
type Matter struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Client relationship
	ClientID string `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	// Matter identification
	MatterNumber string `gorm:"not null;uniqueIndex" json:"matter_number"`
	Title        string `gorm:"not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	PracticeArea string `gorm:"not null;index" json:"practice_area"`

	// Status is set directly by user action; there is no transition table
	Status   string     `gorm:"not null;default:INTAKE;index" json:"status"`
	OpenedAt time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`

	// Billing
	FeeModel      string   `gorm:"not null;default:PROGRESSIVE" json:"fee_model"`
	FlatFeeAmount *float64 `json:"flat_fee_amount,omitempty"` // required when fee model is FLAT_RATE
	HourlyRate    *float64 `json:"hourly_rate,omitempty"`

	// Assignment
	AssignedToID *string `gorm:"type:uuid" json:"assigned_to_id,omitempty"`
	AssignedTo   *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	// Relationships
	Deadlines []Deadline `gorm:"foreignKey:MatterID" json:"deadlines,omitempty"`
	Hearings  []Hearing  `gorm:"foreignKey:MatterID" json:"hearings,omitempty"`
	Documents []Document `gorm:"foreignKey:MatterID" json:"documents,omitempty"`
	Invoices  []Invoice  `gorm:"foreignKey:MatterID" json:"invoices,omitempty"`
}

// BeforeCreate hook to generate UUID and set OpenedAt
func (m *Matter) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.OpenedAt.IsZero() {
		m.OpenedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for Matter model
func (Matter) TableName() string {
	return "matters"
}

// IsOpen checks if the matter is open
func (m *Matter) IsOpen() bool {
	return m.Status == MatterStatusOpen
}

// IsClosed checks if the matter is closed
func (m *Matter) IsClosed() bool {
	return m.Status == MatterStatusClosed
}

// IsValidMatterStatus checks if the status is valid
func IsValidMatterStatus(status string) bool {
	switch status {
	case MatterStatusIntake, MatterStatusOpen, MatterStatusPending, MatterStatusClosed:
		return true
	default:
		return false
	}
}

// IsValidPracticeArea checks if the practice area is valid
func IsValidPracticeArea(area string) bool {
	switch area {
	case PracticeAreaCriminal, PracticeAreaPersonalInjury, PracticeAreaSSD:
		return true
	default:
		return false
	}
}

// IsValidFeeModel checks if the fee model is valid
func IsValidFeeModel(model string) bool {
	return model == FeeModelFlatRate || model == FeeModelProgressive
}
