package handlers

import (
	"net/http"

	"lexdesk_app_go/db"
	"lexdesk_app_go/middleware"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
)

// TimeEntryPayload is the create/update body for a time entry
type TimeEntryPayload struct {
	MatterID    string   `json:"matter_id"`
	Description string   `json:"description"`
	EntryDate   string   `json:"entry_date"`
	Hours       *float64 `json:"hours"`
	Rate        *float64 `json:"rate"`
}

// timeEntryView decorates a time entry with its computed amount
type timeEntryView struct {
	models.TimeEntry
	Amount float64 `json:"amount"`
	Billed bool    `json:"billed"`
}

func toTimeEntryViews(entries []models.TimeEntry) []timeEntryView {
	views := make([]timeEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, timeEntryView{
			TimeEntry: e,
			Amount:    e.Amount(),
			Billed:    e.IsBilled(),
		})
	}
	return views
}

// GetTimeEntriesHandler lists time entries, optionally filtered by matter,
// user, or billed state
func GetTimeEntriesHandler(c echo.Context) error {
	query := db.DB.Preload("Matter").Preload("User").Order("entry_date DESC")

	if matterID := c.QueryParam("matter_id"); matterID != "" {
		query = query.Where("matter_id = ?", matterID)
	}
	if userID := c.QueryParam("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if billed := c.QueryParam("billed"); billed == "true" {
		query = query.Where("invoice_id IS NOT NULL")
	} else if billed == "false" {
		query = query.Where("invoice_id IS NULL")
	}

	var entries []models.TimeEntry
	if err := query.Find(&entries).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch time entries",
		})
	}

	return c.JSON(http.StatusOK, toTimeEntryViews(entries))
}

// CreateTimeEntryHandler records billable time against a matter, attributed
// to the current user
func CreateTimeEntryHandler(c echo.Context) error {
	payload := new(TimeEntryPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.MatterID == "" || payload.Description == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Matter and description are required",
		})
	}
	if payload.Hours == nil || *payload.Hours <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Hours must be greater than zero",
		})
	}
	if payload.Rate == nil || *payload.Rate < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Rate must not be negative",
		})
	}

	var matter models.Matter
	if err := db.DB.First(&matter, "id = ?", payload.MatterID).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Matter not found",
		})
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	entry := models.TimeEntry{
		MatterID:    payload.MatterID,
		UserID:      user.ID,
		Description: payload.Description,
		Hours:       *payload.Hours,
		Rate:        *payload.Rate,
	}
	if payload.EntryDate != "" {
		entryDate, err := services.ParseDate(payload.EntryDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid entry date",
			})
		}
		entry.EntryDate = entryDate
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create time entry",
		})
	}

	return c.JSON(http.StatusCreated, timeEntryView{
		TimeEntry: entry,
		Amount:    entry.Amount(),
		Billed:    entry.IsBilled(),
	})
}

// UpdateTimeEntryHandler merges a partial payload into an unbilled time entry.
// Billed entries are frozen.
func UpdateTimeEntryHandler(c echo.Context) error {
	id := c.Param("id")
	var entry models.TimeEntry
	if err := db.DB.First(&entry, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Time entry not found",
		})
	}

	if entry.IsBilled() {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "Billed time entries cannot be modified",
		})
	}

	payload := new(TimeEntryPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.Description != "" {
		entry.Description = payload.Description
	}
	if payload.Hours != nil {
		if *payload.Hours <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Hours must be greater than zero",
			})
		}
		entry.Hours = *payload.Hours
	}
	if payload.Rate != nil {
		if *payload.Rate < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Rate must not be negative",
			})
		}
		entry.Rate = *payload.Rate
	}
	if payload.EntryDate != "" {
		entryDate, err := services.ParseDate(payload.EntryDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid entry date",
			})
		}
		entry.EntryDate = entryDate
	}

	if err := db.DB.Save(&entry).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to update time entry",
		})
	}

	return c.JSON(http.StatusOK, timeEntryView{
		TimeEntry: entry,
		Amount:    entry.Amount(),
		Billed:    entry.IsBilled(),
	})
}

// DeleteTimeEntryHandler deletes an unbilled time entry
func DeleteTimeEntryHandler(c echo.Context) error {
	id := c.Param("id")
	var entry models.TimeEntry
	if err := db.DB.First(&entry, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Time entry not found",
		})
	}

	if entry.IsBilled() {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "Billed time entries cannot be deleted",
		})
	}

	if err := db.DB.Delete(&entry).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete time entry",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
