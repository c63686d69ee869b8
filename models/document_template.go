package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template output type constants
const (
	OutputTypePDF  = "pdf"
	OutputTypeDOCX = "docx"
)

// DocumentTemplate represents a reusable document template for generating legal documents
type DocumentTemplate struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Template identification
	Name     string `gorm:"not null" json:"name"`
	Category string `gorm:"index" json:"category"`

	// Content with {{variable}} placeholders
	Content string `gorm:"type:text;not null" json:"content"`

	// Names of placeholders the template declares; tokens outside this list
	// are left verbatim during generation
	Variables datatypes.JSON `json:"variables"`

	OutputType string `gorm:"not null;default:pdf" json:"output_type"` // pdf, docx

	// Versioning (bumped whenever content changes)
	Version int `gorm:"not null;default:1" json:"version"`

	// Status
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	// Created by
	CreatedByID string `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy   User   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// BeforeCreate hook to generate UUID
func (t *DocumentTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for DocumentTemplate model
func (DocumentTemplate) TableName() string {
	return "document_templates"
}

// VariableNames decodes the variables JSON column
func (t *DocumentTemplate) VariableNames() ([]string, error) {
	if len(t.Variables) == 0 {
		return []string{}, nil
	}
	var names []string
	if err := json.Unmarshal(t.Variables, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// SetVariableNames encodes placeholder names into the variables JSON column
func (t *DocumentTemplate) SetVariableNames(names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	t.Variables = datatypes.JSON(data)
	return nil
}

// IsValidOutputType checks if the output type is valid
func IsValidOutputType(outputType string) bool {
	return outputType == OutputTypePDF || outputType == OutputTypeDOCX
}
