package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice status constants
const (
	InvoiceStatusDraft   = "DRAFT"
	InvoiceStatusSent    = "SENT"
	InvoiceStatusPaid    = "PAID"
	InvoiceStatusOverdue = "OVERDUE"
)

// LineItem is a single billed line stored inside the invoice record
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// Invoice represents a bill issued against a matter. Totals are computed
// server-side from the line items; client-supplied totals are ignored.
type Invoice struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MatterID string `gorm:"type:uuid;not null;index" json:"matter_id"`
	Matter   Matter `gorm:"foreignKey:MatterID" json:"matter,omitempty"`

	InvoiceNumber string `gorm:"not null;uniqueIndex" json:"invoice_number"`

	LineItems datatypes.JSON `json:"line_items"`

	Subtotal float64 `gorm:"not null;default:0" json:"subtotal"`
	Tax      float64 `gorm:"not null;default:0" json:"tax"`
	Discount float64 `gorm:"not null;default:0" json:"discount"`
	Total    float64 `gorm:"not null;default:0" json:"total"`

	Status   string     `gorm:"not null;default:DRAFT;index" json:"status"`
	IssuedAt *time.Time `json:"issued_at,omitempty"`
	DueAt    *time.Time `json:"due_at,omitempty"`
	PaidAt   *time.Time `json:"paid_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// Items decodes the line_items JSON column into typed entries
func (i *Invoice) Items() ([]LineItem, error) {
	if len(i.LineItems) == 0 {
		return []LineItem{}, nil
	}
	var items []LineItem
	if err := json.Unmarshal(i.LineItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItems encodes typed line items into the line_items JSON column
func (i *Invoice) SetItems(items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	i.LineItems = datatypes.JSON(data)
	return nil
}

// IsOutstanding reports whether the invoice contributes to the client's balance
func (i *Invoice) IsOutstanding() bool {
	return i.Status == InvoiceStatusSent || i.Status == InvoiceStatusOverdue
}

// IsValidInvoiceStatus checks if the status is valid
func IsValidInvoiceStatus(status string) bool {
	switch status {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	default:
		return false
	}
}
