package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"lexdesk_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateDeadlineHandler(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	t.Run("Success with bare date", func(t *testing.T) {
		body := strings.NewReader(`{
			"matter_id": "` + matter.ID + `",
			"title": "File motion",
			"due_at": "2030-06-15",
			"source": "COURT_ORDER"
		}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/deadlines", body)

		err := CreateDeadlineHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var deadline models.Deadline
		assert.NoError(t, database.Where("title = ?", "File motion").First(&deadline).Error)
		assert.Equal(t, models.DeadlineStatusOpen, deadline.Status)
		assert.Equal(t, models.DeadlineSourceCourtOrder, deadline.Source)
	})

	t.Run("Missing due date rejected", func(t *testing.T) {
		body := strings.NewReader(`{"matter_id": "` + matter.ID + `", "title": "No date"}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/deadlines", body)

		err := CreateDeadlineHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Invalid source rejected", func(t *testing.T) {
		body := strings.NewReader(`{"matter_id": "` + matter.ID + `", "title": "Bad", "due_at": "2030-01-01", "source": "GUESS"}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/deadlines", body)

		err := CreateDeadlineHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCompleteDeadlineHandler(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	deadline := &models.Deadline{
		MatterID: matter.ID,
		Title:    "Serve discovery",
		Source:   models.DeadlineSourceRule,
		DueAt:    time.Now().Add(-48 * time.Hour),
		Status:   models.DeadlineStatusPastDue,
	}
	assert.NoError(t, database.Create(deadline).Error)

	t.Run("Completes and stamps timestamp", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/deadlines/"+deadline.ID+"/complete", nil)
		c.SetParamNames("id")
		c.SetParamValues(deadline.ID)

		err := CompleteDeadlineHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Deadline
		database.First(&updated, "id = ?", deadline.ID)
		assert.Equal(t, models.DeadlineStatusCompleted, updated.Status)
		assert.NotNil(t, updated.CompletedAt)
	})

	t.Run("Completing twice is a no-op", func(t *testing.T) {
		var before models.Deadline
		database.First(&before, "id = ?", deadline.ID)

		_, c, rec := setupEcho(http.MethodPost, "/api/deadlines/"+deadline.ID+"/complete", nil)
		c.SetParamNames("id")
		c.SetParamValues(deadline.ID)

		err := CompleteDeadlineHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var after models.Deadline
		database.First(&after, "id = ?", deadline.ID)
		assert.Equal(t, before.CompletedAt.Unix(), after.CompletedAt.Unix())
	})
}

func TestGetGroupedDeadlinesHandler(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	now := time.Now()
	database.Create(&models.Deadline{MatterID: matter.ID, Title: "Overdue one", Source: models.DeadlineSourceManual, DueAt: now.AddDate(0, 0, -3), Status: models.DeadlineStatusPastDue})
	database.Create(&models.Deadline{MatterID: matter.ID, Title: "This week", Source: models.DeadlineSourceManual, DueAt: now.AddDate(0, 0, 2), Status: models.DeadlineStatusOpen})
	database.Create(&models.Deadline{MatterID: matter.ID, Title: "Far future", Source: models.DeadlineSourceManual, DueAt: now.AddDate(0, 6, 0), Status: models.DeadlineStatusOpen})

	_, c, rec := setupEcho(http.MethodGet, "/api/deadlines/grouped", nil)

	err := GetGroupedDeadlinesHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"overdue"`)
	assert.Contains(t, body, `"due_this_week"`)
	assert.Contains(t, body, `"future"`)
	assert.Contains(t, body, "Overdue one")
	assert.Contains(t, body, "This week")
	assert.Contains(t, body, "Far future")
}

func TestUpdateDeadlineHandlerDueDateMove(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	sent := time.Now().Add(-2 * time.Hour)
	deadline := &models.Deadline{
		MatterID:       matter.ID,
		Title:          "Reply brief",
		Source:         models.DeadlineSourceManual,
		DueAt:          time.Now().Add(-24 * time.Hour),
		Status:         models.DeadlineStatusPastDue,
		ReminderSentAt: &sent,
	}
	assert.NoError(t, database.Create(deadline).Error)

	body := strings.NewReader(`{"due_at": "2031-01-15"}`)
	_, c, rec := setupEcho(http.MethodPut, "/api/deadlines/"+deadline.ID, body)
	c.SetParamNames("id")
	c.SetParamValues(deadline.ID)

	err := UpdateDeadlineHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.Deadline
	database.First(&updated, "id = ?", deadline.ID)
	// Moving the due date forward reopens the deadline and re-arms the reminder
	assert.Equal(t, models.DeadlineStatusOpen, updated.Status)
	assert.Nil(t, updated.ReminderSentAt)
}

func TestDeadlineNotes(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, models.RoleAttorney)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	deadline := &models.Deadline{
		MatterID: matter.ID,
		Title:    "Hearing prep",
		Source:   models.DeadlineSourceManual,
		DueAt:    time.Now().Add(72 * time.Hour),
		Status:   models.DeadlineStatusOpen,
	}
	assert.NoError(t, database.Create(deadline).Error)

	t.Run("Add note", func(t *testing.T) {
		body := strings.NewReader(`{"body": "Called the clerk, hearing confirmed"}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/deadlines/"+deadline.ID+"/notes", body)
		c.SetParamNames("id")
		c.SetParamValues(deadline.ID)
		c.Set("user", user)

		err := AddDeadlineNoteHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("List notes", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/deadlines/"+deadline.ID+"/notes", nil)
		c.SetParamNames("id")
		c.SetParamValues(deadline.ID)

		err := GetDeadlineNotesHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "hearing confirmed")
	})

	t.Run("Empty note rejected", func(t *testing.T) {
		body := strings.NewReader(`{"body": ""}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/deadlines/"+deadline.ID+"/notes", body)
		c.SetParamNames("id")
		c.SetParamValues(deadline.ID)
		c.Set("user", user)

		err := AddDeadlineNoteHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
