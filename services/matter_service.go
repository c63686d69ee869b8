package services

import (
	"fmt"
	"time"

	"lexdesk_app_go/models"

	"gorm.io/gorm"
)

// GenerateMatterNumber generates a unique matter number.
// Format: MT-{YEAR}-{SEQUENCE}, e.g. MT-2026-00042
func GenerateMatterNumber(db *gorm.DB) (string, error) {
	currentYear := time.Now().Year()

	// Find the highest sequence number for this year
	var maxMatter models.Matter
	err := db.Where("matter_number LIKE ?", fmt.Sprintf("MT-%d-%%", currentYear)).
		Order("matter_number DESC").
		First(&maxMatter).Error

	sequence := 1
	if err == nil {
		var parsedSeq int
		_, scanErr := fmt.Sscanf(maxMatter.MatterNumber, fmt.Sprintf("MT-%d-%%d", currentYear), &parsedSeq)
		if scanErr == nil {
			sequence = parsedSeq + 1
		}
	} else if err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to query max matter number: %w", err)
	}

	return fmt.Sprintf("MT-%d-%05d", currentYear, sequence), nil
}

// EnsureUniqueMatterNumber generates a matter number with collision retry
func EnsureUniqueMatterNumber(db *gorm.DB) (string, error) {
	const maxRetries = 10

	for i := 0; i < maxRetries; i++ {
		matterNumber, err := GenerateMatterNumber(db)
		if err != nil {
			return "", err
		}

		var count int64
		if err := db.Model(&models.Matter{}).Where("matter_number = ?", matterNumber).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check matter number uniqueness: %w", err)
		}
		if count == 0 {
			return matterNumber, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique matter number after retries")
}

// ValidateMatter checks per-field requirements before a matter is saved.
// The fee model drives which billing field is required; this is the only
// cross-field check the application performs.
func ValidateMatter(m *models.Matter) error {
	if m.Title == "" {
		return fmt.Errorf("title is required")
	}
	if m.ClientID == "" {
		return fmt.Errorf("client is required")
	}
	if !models.IsValidPracticeArea(m.PracticeArea) {
		return fmt.Errorf("invalid practice area: %s", m.PracticeArea)
	}
	if m.Status != "" && !models.IsValidMatterStatus(m.Status) {
		return fmt.Errorf("invalid status: %s", m.Status)
	}
	if !models.IsValidFeeModel(m.FeeModel) {
		return fmt.Errorf("invalid fee model: %s", m.FeeModel)
	}
	if m.FeeModel == models.FeeModelFlatRate && (m.FlatFeeAmount == nil || *m.FlatFeeAmount <= 0) {
		return fmt.Errorf("flat rate matters require a flat fee amount")
	}
	if m.FeeModel == models.FeeModelProgressive && (m.HourlyRate == nil || *m.HourlyRate <= 0) {
		return fmt.Errorf("progressive matters require an hourly rate")
	}
	return nil
}
