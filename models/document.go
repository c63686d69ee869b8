package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document represents a file attached to a matter: either uploaded directly
// or generated from a template. FileURL is a plain URL or a storage:// URI.
type Document struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MatterID string `gorm:"type:uuid;not null;index" json:"matter_id"`
	Matter   Matter `gorm:"foreignKey:MatterID" json:"matter,omitempty"`

	// Nullable: uploaded documents have no template
	TemplateID      *string           `gorm:"type:uuid;index" json:"template_id,omitempty"`
	Template        *DocumentTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	TemplateVersion int               `json:"template_version,omitempty"`

	Name     string `gorm:"not null" json:"name"`
	FileURL  string `gorm:"not null" json:"file_url"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`

	// Version increments per matter+name on regeneration
	Version int `gorm:"not null;default:1" json:"version"`

	GeneratedByID *string `gorm:"type:uuid" json:"generated_by_id,omitempty"`
	GeneratedBy   *User   `gorm:"foreignKey:GeneratedByID" json:"generated_by,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}
