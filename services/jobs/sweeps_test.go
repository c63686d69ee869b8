package jobs

import (
	"testing"
	"time"

	"lexdesk_app_go/config"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Client{},
		&models.Matter{},
		&models.Deadline{},
		&models.Invoice{},
		&models.Notification{},
	))
	return db
}

func seedMatter(t *testing.T, db *gorm.DB, assignedToID *string) *models.Matter {
	client := &models.Client{FirstName: "Test", LastName: "Client", IsActive: true}
	assert.NoError(t, db.Create(client).Error)

	rate := 250.0
	matter := &models.Matter{
		ClientID:     client.ID,
		MatterNumber: "MT-2026-09001",
		Title:        "Sweep test matter",
		PracticeArea: models.PracticeAreaSSD,
		Status:       models.MatterStatusOpen,
		FeeModel:     models.FeeModelProgressive,
		HourlyRate:   &rate,
		AssignedToID: assignedToID,
	}
	assert.NoError(t, db.Create(matter).Error)
	return matter
}

func TestSendDeadlineReminders(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{EmailTestMode: true, AppURL: "http://localhost:8080"}

	attorney := &models.User{Name: "Attorney", Email: "attorney@firm.example", Password: "hash", Role: models.RoleAttorney}
	assert.NoError(t, db.Create(attorney).Error)
	matter := seedMatter(t, db, &attorney.ID)

	soon := models.Deadline{MatterID: matter.ID, Title: "Response due", DueAt: time.Now().Add(24 * time.Hour), Status: models.DeadlineStatusOpen}
	far := models.Deadline{MatterID: matter.ID, Title: "Far out", DueAt: time.Now().Add(120 * time.Hour), Status: models.DeadlineStatusOpen}
	done := models.Deadline{MatterID: matter.ID, Title: "Already done", DueAt: time.Now().Add(24 * time.Hour), Status: models.DeadlineStatusCompleted}
	assert.NoError(t, db.Create(&soon).Error)
	assert.NoError(t, db.Create(&far).Error)
	assert.NoError(t, db.Create(&done).Error)

	SendDeadlineReminders(db, cfg)

	var reloaded models.Deadline
	db.First(&reloaded, "id = ?", soon.ID)
	assert.NotNil(t, reloaded.ReminderSentAt)

	reloaded = models.Deadline{}
	db.First(&reloaded, "id = ?", far.ID)
	assert.Nil(t, reloaded.ReminderSentAt)

	reloaded = models.Deadline{}
	db.First(&reloaded, "id = ?", done.ID)
	assert.Nil(t, reloaded.ReminderSentAt)

	var notifications []models.Notification
	db.Find(&notifications)
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeDeadline, notifications[0].Type)
	assert.NotNil(t, notifications[0].UserID)
	assert.Equal(t, attorney.ID, *notifications[0].UserID)
	assert.Equal(t, "/deadlines/"+soon.ID, notifications[0].LinkURL)

	// Second run does not remind twice
	SendDeadlineReminders(db, cfg)
	db.Find(&notifications)
	assert.Len(t, notifications, 1)
}

func TestSendDeadlineRemindersUnassignedMatter(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{EmailTestMode: true}

	matter := seedMatter(t, db, nil)
	deadline := models.Deadline{MatterID: matter.ID, Title: "No assignee", DueAt: time.Now().Add(12 * time.Hour), Status: models.DeadlineStatusOpen}
	assert.NoError(t, db.Create(&deadline).Error)

	SendDeadlineReminders(db, cfg)

	// Broadcast notification still raised without an email target
	var notifications []models.Notification
	db.Find(&notifications)
	assert.Len(t, notifications, 1)
	assert.Nil(t, notifications[0].UserID)

	var reloaded models.Deadline
	db.First(&reloaded, "id = ?", deadline.ID)
	assert.NotNil(t, reloaded.ReminderSentAt)
}

func TestRunHourlySweeps(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{EmailTestMode: true}

	user := &models.User{Name: "U", Email: "u@firm.example", Password: "hash", Role: models.RoleStaff}
	assert.NoError(t, db.Create(user).Error)
	session, err := services.CreateSession(db, user.ID, "", "")
	assert.NoError(t, err)
	db.Model(session).Update("expires_at", time.Now().Add(-time.Hour))

	matter := seedMatter(t, db, nil)

	past := time.Now().Add(-24 * time.Hour)
	deadline := models.Deadline{MatterID: matter.ID, Title: "Missed", DueAt: past, Status: models.DeadlineStatusOpen}
	assert.NoError(t, db.Create(&deadline).Error)
	invoice := models.Invoice{MatterID: matter.ID, InvoiceNumber: "INV-2026-50001", Status: models.InvoiceStatusSent, DueAt: &past}
	assert.NoError(t, db.Create(&invoice).Error)

	RunHourlySweeps(db, cfg)

	var sessionCount int64
	db.Model(&models.Session{}).Count(&sessionCount)
	assert.Equal(t, int64(0), sessionCount)

	var reloadedDeadline models.Deadline
	db.First(&reloadedDeadline, "id = ?", deadline.ID)
	assert.Equal(t, models.DeadlineStatusPastDue, reloadedDeadline.Status)

	var reloadedInvoice models.Invoice
	db.First(&reloadedInvoice, "id = ?", invoice.ID)
	assert.Equal(t, models.InvoiceStatusOverdue, reloadedInvoice.Status)
}
