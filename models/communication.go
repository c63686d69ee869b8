package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Communication channel constants
const (
	ChannelSMS    = "SMS"
	ChannelEmail  = "EMAIL"
	ChannelPhone  = "PHONE"
	ChannelPortal = "PORTAL"
)

// Communication direction constants
const (
	DirectionInbound  = "INBOUND"
	DirectionOutbound = "OUTBOUND"
)

// Communication is a logged exchange with a client on a matter
type Communication struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MatterID string `gorm:"type:uuid;not null;index" json:"matter_id"`
	Matter   Matter `gorm:"foreignKey:MatterID" json:"matter,omitempty"`

	Channel   string `gorm:"not null" json:"channel"`
	Direction string `gorm:"not null" json:"direction"`
	Subject   string `json:"subject"`
	Body      string `gorm:"type:text;not null" json:"body"`

	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`

	LoggedByID *string `gorm:"type:uuid" json:"logged_by_id,omitempty"`
	LoggedBy   *User   `gorm:"foreignKey:LoggedByID" json:"logged_by,omitempty"`
}

// BeforeCreate hook to generate UUID and default OccurredAt
func (c *Communication) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.OccurredAt.IsZero() {
		c.OccurredAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for Communication model
func (Communication) TableName() string {
	return "communications"
}

// IsValidChannel checks if the channel is valid
func IsValidChannel(channel string) bool {
	switch channel {
	case ChannelSMS, ChannelEmail, ChannelPhone, ChannelPortal:
		return true
	default:
		return false
	}
}

// IsValidDirection checks if the direction is valid
func IsValidDirection(direction string) bool {
	return direction == DirectionInbound || direction == DirectionOutbound
}
