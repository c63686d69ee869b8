package handlers

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"lexdesk_app_go/config"
	"lexdesk_app_go/db"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	// Initialize Storage for tests if not already set
	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_uploads")
	}

	err = testDB.AutoMigrate(
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
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

func createTestUser(t *testing.T, database *gorm.DB, role string) *models.User {
	hashed, err := services.HashPassword("password123")
	assert.NoError(t, err)

	user := &models.User{
		Name:     "Test User",
		Email:    uuid.New().String() + "@test.com",
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	assert.NoError(t, database.Create(user).Error)
	return user
}

func createTestClient(t *testing.T, database *gorm.DB) *models.Client {
	client := &models.Client{
		FirstName:              "Jane",
		LastName:               "Doe",
		Email:                  uuid.New().String() + "@client.test",
		PreferredContactMethod: models.ContactMethodEmail,
		IsActive:               true,
	}
	assert.NoError(t, database.Create(client).Error)
	return client
}

func createTestMatter(t *testing.T, database *gorm.DB, clientID string) *models.Matter {
	number, err := services.EnsureUniqueMatterNumber(database)
	assert.NoError(t, err)

	rate := 250.0
	matter := &models.Matter{
		ClientID:     clientID,
		MatterNumber: number,
		Title:        "Test Matter",
		PracticeArea: models.PracticeAreaCriminal,
		Status:       models.MatterStatusOpen,
		FeeModel:     models.FeeModelProgressive,
		HourlyRate:   &rate,
		OpenedAt:     time.Now(),
	}
	assert.NoError(t, database.Create(matter).Error)
	return matter
}

func stringToPtr(s string) *string {
	return &s
}
