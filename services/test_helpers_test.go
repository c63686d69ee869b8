package services

import (
	"testing"

	"lexdesk_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB initializes an in-memory SQLite database for testing
func setupTestDB(t *testing.T, migrateModels ...interface{}) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	if len(migrateModels) == 0 {
		migrateModels = []interface{}{
			&models.User{},
			&models.Session{},
			&models.Client{},
			&models.Matter{},
			&models.Deadline{},
			&models.DeadlineNote{},
			&models.Hearing{},
			&models.Communication{},
			&models.TimeEntry{},
			&models.Invoice{},
			&models.DocumentTemplate{},
			&models.Document{},
			&models.Notification{},
		}
	}
	assert.NoError(t, db.AutoMigrate(migrateModels...))

	return db
}

func createClient(t *testing.T, db *gorm.DB, firstName, lastName string) *models.Client {
	client := &models.Client{
		FirstName: firstName,
		LastName:  lastName,
		Email:     firstName + "." + lastName + "@example.com",
		IsActive:  true,
	}
	assert.NoError(t, db.Create(client).Error)
	return client
}

func createMatter(t *testing.T, db *gorm.DB, clientID, matterNumber string) *models.Matter {
	rate := 250.0
	matter := &models.Matter{
		ClientID:     clientID,
		MatterNumber: matterNumber,
		Title:        "Test matter",
		PracticeArea: models.PracticeAreaSSD,
		Status:       models.MatterStatusOpen,
		FeeModel:     models.FeeModelProgressive,
		HourlyRate:   &rate,
	}
	assert.NoError(t, db.Create(matter).Error)
	return matter
}
