package handlers

import (
	"net/http"
	"time"

	"lexdesk_app_go/db"
	"lexdesk_app_go/middleware"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
)

// DeadlinePayload is the create/update body for a deadline
type DeadlinePayload struct {
	MatterID    string `json:"matter_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	DueAt       string `json:"due_at"`
	Status      string `json:"status"`
}

// deadlineView decorates a deadline with its computed day count
type deadlineView struct {
	models.Deadline
	DaysUntilDue int `json:"days_until_due"`
}

func toDeadlineViews(deadlines []models.Deadline, now time.Time) []deadlineView {
	views := make([]deadlineView, 0, len(deadlines))
	for _, d := range deadlines {
		views = append(views, deadlineView{
			Deadline:     d,
			DaysUntilDue: services.DaysUntilDue(d.DueAt, now),
		})
	}
	return views
}

// GetDeadlinesHandler lists deadlines, optionally filtered by status or matter
func GetDeadlinesHandler(c echo.Context) error {
	query := db.DB.Preload("Matter").Order("due_at ASC")

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if matterID := c.QueryParam("matter_id"); matterID != "" {
		query = query.Where("matter_id = ?", matterID)
	}

	var deadlines []models.Deadline
	if err := query.Find(&deadlines).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch deadlines",
		})
	}

	return c.JSON(http.StatusOK, toDeadlineViews(deadlines, time.Now()))
}

// GetGroupedDeadlinesHandler returns all deadlines partitioned into urgency
// buckets for the deadlines board
func GetGroupedDeadlinesHandler(c echo.Context) error {
	var deadlines []models.Deadline
	if err := db.DB.Preload("Matter").Order("due_at ASC").Find(&deadlines).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch deadlines",
		})
	}

	return c.JSON(http.StatusOK, services.GroupDeadlines(deadlines, time.Now()))
}

// GetDeadlineHandler returns a single deadline with its notes
func GetDeadlineHandler(c echo.Context) error {
	id := c.Param("id")
	var deadline models.Deadline
	err := db.DB.Preload("Matter").
		Preload("Notes").
		Preload("Notes.Author").
		First(&deadline, "id = ?", id).Error
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Deadline not found",
		})
	}

	return c.JSON(http.StatusOK, deadlineView{
		Deadline:     deadline,
		DaysUntilDue: services.DaysUntilDue(deadline.DueAt, time.Now()),
	})
}

// CreateDeadlineHandler creates a deadline on a matter
func CreateDeadlineHandler(c echo.Context) error {
	payload := new(DeadlinePayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.Title == "" || payload.MatterID == "" || payload.DueAt == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Matter, title and due date are required",
		})
	}

	var matter models.Matter
	if err := db.DB.First(&matter, "id = ?", payload.MatterID).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Matter not found",
		})
	}

	dueAt, err := parseDeadlineTime(payload.DueAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid due date",
		})
	}

	deadline := models.Deadline{
		MatterID:    payload.MatterID,
		Title:       payload.Title,
		Description: payload.Description,
		Source:      models.DeadlineSourceManual,
		DueAt:       dueAt,
		Status:      models.DeadlineStatusOpen,
	}
	if payload.Source != "" {
		if !models.IsValidDeadlineSource(payload.Source) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid deadline source",
			})
		}
		deadline.Source = payload.Source
	}

	if err := db.DB.Create(&deadline).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create deadline",
		})
	}

	return c.JSON(http.StatusCreated, deadline)
}

// parseDeadlineTime accepts RFC3339 timestamps or bare dates
func parseDeadlineTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return services.ParseDate(value)
}

// UpdateDeadlineHandler merges a partial payload into an existing deadline
func UpdateDeadlineHandler(c echo.Context) error {
	id := c.Param("id")
	var deadline models.Deadline
	if err := db.DB.First(&deadline, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Deadline not found",
		})
	}

	payload := new(DeadlinePayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.Title != "" {
		deadline.Title = payload.Title
	}
	if payload.Description != "" {
		deadline.Description = payload.Description
	}
	if payload.Source != "" {
		if !models.IsValidDeadlineSource(payload.Source) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid deadline source",
			})
		}
		deadline.Source = payload.Source
	}
	if payload.DueAt != "" {
		dueAt, err := parseDeadlineTime(payload.DueAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid due date",
			})
		}
		deadline.DueAt = dueAt
		// A moved due date invalidates the previous reminder
		deadline.ReminderSentAt = nil
		if deadline.Status == models.DeadlineStatusPastDue && dueAt.After(time.Now()) {
			deadline.Status = models.DeadlineStatusOpen
		}
	}
	if payload.Status != "" {
		if !models.IsValidDeadlineStatus(payload.Status) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid deadline status",
			})
		}
		deadline.Status = payload.Status
		if payload.Status != models.DeadlineStatusCompleted {
			deadline.CompletedAt = nil
		}
	}

	if err := db.DB.Save(&deadline).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to update deadline",
		})
	}

	return c.JSON(http.StatusOK, deadline)
}

// CompleteDeadlineHandler marks a deadline completed
func CompleteDeadlineHandler(c echo.Context) error {
	id := c.Param("id")
	var deadline models.Deadline
	if err := db.DB.First(&deadline, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Deadline not found",
		})
	}

	if deadline.IsCompleted() {
		return c.JSON(http.StatusOK, deadline)
	}

	if err := services.CompleteDeadline(db.DB, &deadline); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to complete deadline",
		})
	}

	return c.JSON(http.StatusOK, deadline)
}

// DeleteDeadlineHandler soft-deletes a deadline
func DeleteDeadlineHandler(c echo.Context) error {
	id := c.Param("id")
	var deadline models.Deadline
	if err := db.DB.First(&deadline, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Deadline not found",
		})
	}

	if err := db.DB.Delete(&deadline).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete deadline",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// GetDeadlineNotesHandler lists the notes on a deadline, oldest first
func GetDeadlineNotesHandler(c echo.Context) error {
	id := c.Param("id")
	var deadline models.Deadline
	if err := db.DB.First(&deadline, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Deadline not found",
		})
	}

	var notes []models.DeadlineNote
	err := db.DB.Preload("Author").
		Where("deadline_id = ?", id).
		Order("created_at ASC").
		Find(&notes).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch notes",
		})
	}

	return c.JSON(http.StatusOK, notes)
}

// DeadlineNotePayload is the body for adding a note to a deadline
type DeadlineNotePayload struct {
	Body string `json:"body"`
}

// AddDeadlineNoteHandler appends a note to a deadline, authored by the
// current user
func AddDeadlineNoteHandler(c echo.Context) error {
	id := c.Param("id")
	var deadline models.Deadline
	if err := db.DB.First(&deadline, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Deadline not found",
		})
	}

	payload := new(DeadlineNotePayload)
	if err := c.Bind(payload); err != nil || payload.Body == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Note body is required",
		})
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	note := models.DeadlineNote{
		DeadlineID: deadline.ID,
		AuthorID:   user.ID,
		Body:       payload.Body,
	}
	if err := db.DB.Create(&note).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to add note",
		})
	}

	return c.JSON(http.StatusCreated, note)
}
