package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Preferred contact method constants
const (
	ContactMethodEmail = "EMAIL"
	ContactMethodPhone = "PHONE"
	ContactMethodSMS   = "SMS"
	ContactMethodMail  = "MAIL"
)

// Phone is a labeled phone number stored inside the client record
type Phone struct {
	Label  string `json:"label"` // mobile, home, work
	Number string `json:"number"`
}

// Address is the client's mailing address stored inside the client record
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Client represents a person or entity the firm represents
type Client struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"index" json:"email"`

	// JSON columns decoded once at the model boundary (see Phones/Address helpers)
	Phones  datatypes.JSON `json:"phones"`
	Address datatypes.JSON `json:"address"`

	PreferredContactMethod string `gorm:"not null;default:EMAIL" json:"preferred_contact_method"`
	PortalEnabled          bool   `gorm:"not null;default:false" json:"portal_enabled"`
	IsActive               bool   `gorm:"not null;default:true" json:"is_active"`
	Notes                  string `gorm:"type:text" json:"notes"`

	// Relationships
	Matters []Matter `gorm:"foreignKey:ClientID" json:"matters,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Client model
func (Client) TableName() string {
	return "clients"
}

// FullName returns the client's display name
func (c *Client) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// PhoneList decodes the phones JSON column into typed entries.
// A null or empty column decodes to an empty list.
func (c *Client) PhoneList() ([]Phone, error) {
	if len(c.Phones) == 0 {
		return []Phone{}, nil
	}
	var phones []Phone
	if err := json.Unmarshal(c.Phones, &phones); err != nil {
		return nil, err
	}
	return phones, nil
}

// SetPhoneList encodes typed phone entries into the phones JSON column
func (c *Client) SetPhoneList(phones []Phone) error {
	data, err := json.Marshal(phones)
	if err != nil {
		return err
	}
	c.Phones = datatypes.JSON(data)
	return nil
}

// MailingAddress decodes the address JSON column
func (c *Client) MailingAddress() (Address, error) {
	if len(c.Address) == 0 {
		return Address{}, nil
	}
	var addr Address
	if err := json.Unmarshal(c.Address, &addr); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// SetMailingAddress encodes the address into the address JSON column
func (c *Client) SetMailingAddress(addr Address) error {
	data, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	c.Address = datatypes.JSON(data)
	return nil
}

// HasPhone reports whether the client has at least one phone number on file
func (c *Client) HasPhone() bool {
	phones, err := c.PhoneList()
	if err != nil {
		return false
	}
	for _, p := range phones {
		if p.Number != "" {
			return true
		}
	}
	return false
}

// IsValidContactMethod checks if the contact method is valid
func IsValidContactMethod(method string) bool {
	switch method {
	case ContactMethodEmail, ContactMethodPhone, ContactMethodSMS, ContactMethodMail:
		return true
	default:
		return false
	}
}
