package handlers

import (
	"net/http"
	"time"

	"lexdesk_app_go/db"
	"lexdesk_app_go/middleware"
	"lexdesk_app_go/models"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
)

var communicationPolicy = bluemonday.UGCPolicy()

// CommunicationPayload is the create body for a communication log entry
type CommunicationPayload struct {
	MatterID   string `json:"matter_id"`
	Channel    string `json:"channel"`
	Direction  string `json:"direction"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	OccurredAt string `json:"occurred_at"`
}

// GetCommunicationsHandler lists communications, newest first, optionally
// restricted to a matter or channel
func GetCommunicationsHandler(c echo.Context) error {
	query := db.DB.Preload("Matter").Preload("LoggedBy").Order("occurred_at DESC")

	if matterID := c.QueryParam("matter_id"); matterID != "" {
		query = query.Where("matter_id = ?", matterID)
	}
	if channel := c.QueryParam("channel"); channel != "" {
		query = query.Where("channel = ?", channel)
	}

	var comms []models.Communication
	if err := query.Find(&comms).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch communications",
		})
	}

	return c.JSON(http.StatusOK, comms)
}

// CreateCommunicationHandler logs a communication on a matter. The body is
// sanitized; it may be rendered back as rich text.
func CreateCommunicationHandler(c echo.Context) error {
	payload := new(CommunicationPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.MatterID == "" || payload.Body == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Matter and body are required",
		})
	}
	if !models.IsValidChannel(payload.Channel) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid channel",
		})
	}
	if !models.IsValidDirection(payload.Direction) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid direction",
		})
	}

	var matter models.Matter
	if err := db.DB.First(&matter, "id = ?", payload.MatterID).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Matter not found",
		})
	}

	comm := models.Communication{
		MatterID:  payload.MatterID,
		Channel:   payload.Channel,
		Direction: payload.Direction,
		Subject:   payload.Subject,
		Body:      communicationPolicy.Sanitize(payload.Body),
	}
	if payload.OccurredAt != "" {
		occurred, err := time.Parse(time.RFC3339, payload.OccurredAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid occurred_at timestamp",
			})
		}
		comm.OccurredAt = occurred
	}
	if user := middleware.GetCurrentUser(c); user != nil {
		comm.LoggedByID = &user.ID
	}

	if err := db.DB.Create(&comm).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to log communication",
		})
	}

	return c.JSON(http.StatusCreated, comm)
}

// DeleteCommunicationHandler soft-deletes a communication log entry
func DeleteCommunicationHandler(c echo.Context) error {
	id := c.Param("id")
	var comm models.Communication
	if err := db.DB.First(&comm, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Communication not found",
		})
	}

	if err := db.DB.Delete(&comm).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete communication",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
