package handlers

import (
	"net/http"
	"time"

	"lexdesk_app_go/db"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
)

// HearingPayload is the create/update body for a hearing
type HearingPayload struct {
	MatterID     string `json:"matter_id"`
	Title        string `json:"title"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Courtroom    string `json:"courtroom"`
	Judge        string `json:"judge"`
	IsSSAHearing *bool  `json:"is_ssa_hearing"`
	Notes        string `json:"notes"`
}

// GetHearingsHandler lists hearings, optionally restricted to a matter or a
// from/to window for the calendar view
func GetHearingsHandler(c echo.Context) error {
	query := db.DB.Preload("Matter").Preload("Matter.Client").Order("start_time ASC")

	if matterID := c.QueryParam("matter_id"); matterID != "" {
		query = query.Where("matter_id = ?", matterID)
	}
	if from := c.QueryParam("from"); from != "" {
		t, err := services.ParseDate(from)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid from date",
			})
		}
		query = query.Where("start_time >= ?", t)
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := services.ParseDate(to)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid to date",
			})
		}
		// Inclusive end date
		query = query.Where("start_time < ?", t.Add(24*time.Hour))
	}

	var hearings []models.Hearing
	if err := query.Find(&hearings).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch hearings",
		})
	}

	return c.JSON(http.StatusOK, hearings)
}

// GetHearingHandler returns a single hearing
func GetHearingHandler(c echo.Context) error {
	id := c.Param("id")
	var hearing models.Hearing
	if err := db.DB.Preload("Matter").First(&hearing, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Hearing not found",
		})
	}
	return c.JSON(http.StatusOK, hearing)
}

// CreateHearingHandler schedules a hearing on a matter
func CreateHearingHandler(c echo.Context) error {
	payload := new(HearingPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.MatterID == "" || payload.Title == "" || payload.StartTime == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Matter, title and start time are required",
		})
	}

	var matter models.Matter
	if err := db.DB.First(&matter, "id = ?", payload.MatterID).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Matter not found",
		})
	}

	start, err := time.Parse(time.RFC3339, payload.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid start time",
		})
	}

	end := start.Add(time.Hour)
	if payload.EndTime != "" {
		end, err = time.Parse(time.RFC3339, payload.EndTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid end time",
			})
		}
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "End time must be after start time",
		})
	}

	hearing := models.Hearing{
		MatterID:  payload.MatterID,
		Title:     payload.Title,
		StartTime: start,
		EndTime:   end,
		Courtroom: payload.Courtroom,
		Judge:     payload.Judge,
		Notes:     payload.Notes,
	}
	if payload.IsSSAHearing != nil {
		hearing.IsSSAHearing = *payload.IsSSAHearing
	}

	if err := db.DB.Create(&hearing).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create hearing",
		})
	}

	return c.JSON(http.StatusCreated, hearing)
}

// UpdateHearingHandler merges a partial payload into an existing hearing
func UpdateHearingHandler(c echo.Context) error {
	id := c.Param("id")
	var hearing models.Hearing
	if err := db.DB.First(&hearing, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Hearing not found",
		})
	}

	payload := new(HearingPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.Title != "" {
		hearing.Title = payload.Title
	}
	if payload.Courtroom != "" {
		hearing.Courtroom = payload.Courtroom
	}
	if payload.Judge != "" {
		hearing.Judge = payload.Judge
	}
	if payload.Notes != "" {
		hearing.Notes = payload.Notes
	}
	if payload.IsSSAHearing != nil {
		hearing.IsSSAHearing = *payload.IsSSAHearing
	}
	if payload.StartTime != "" {
		start, err := time.Parse(time.RFC3339, payload.StartTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid start time",
			})
		}
		hearing.StartTime = start
	}
	if payload.EndTime != "" {
		end, err := time.Parse(time.RFC3339, payload.EndTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid end time",
			})
		}
		hearing.EndTime = end
	}
	if !hearing.EndTime.After(hearing.StartTime) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "End time must be after start time",
		})
	}

	if err := db.DB.Save(&hearing).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to update hearing",
		})
	}

	return c.JSON(http.StatusOK, hearing)
}

// DeleteHearingHandler soft-deletes a hearing
func DeleteHearingHandler(c echo.Context) error {
	id := c.Param("id")
	var hearing models.Hearing
	if err := db.DB.First(&hearing, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Hearing not found",
		})
	}

	if err := db.DB.Delete(&hearing).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete hearing",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
