package handlers

import (
	"net/http"
	"time"

	"lexdesk_app_go/db"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
)

// MatterPayload is the create/update body for a matter
type MatterPayload struct {
	ClientID      string   `json:"client_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	PracticeArea  string   `json:"practice_area"`
	Status        string   `json:"status"`
	FeeModel      string   `json:"fee_model"`
	FlatFeeAmount *float64 `json:"flat_fee_amount"`
	HourlyRate    *float64 `json:"hourly_rate"`
	AssignedToID  *string  `json:"assigned_to_id"`
}

// GetMattersHandler lists matters, optionally filtered by status,
// practice_area, or client_id
func GetMattersHandler(c echo.Context) error {
	query := db.DB.Preload("Client").Order("opened_at DESC")

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if area := c.QueryParam("practice_area"); area != "" {
		query = query.Where("practice_area = ?", area)
	}
	if clientID := c.QueryParam("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var matters []models.Matter
	if err := query.Find(&matters).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch matters",
		})
	}

	return c.JSON(http.StatusOK, matters)
}

// GetMatterHandler returns a matter with its related records
func GetMatterHandler(c echo.Context) error {
	id := c.Param("id")
	var matter models.Matter
	err := db.DB.Preload("Client").
		Preload("AssignedTo").
		Preload("Deadlines").
		Preload("Hearings").
		Preload("Documents").
		Preload("Invoices").
		First(&matter, "id = ?", id).Error
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Matter not found",
		})
	}
	return c.JSON(http.StatusOK, matter)
}

// CreateMatterHandler creates a matter with a generated matter number
func CreateMatterHandler(c echo.Context) error {
	payload := new(MatterPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	// The referenced client must exist; relationships are by convention, but
	// matters without a real client are useless
	var client models.Client
	if err := db.DB.First(&client, "id = ?", payload.ClientID).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Client not found",
		})
	}

	matter := models.Matter{
		ClientID:      payload.ClientID,
		Title:         payload.Title,
		Description:   payload.Description,
		PracticeArea:  payload.PracticeArea,
		Status:        models.MatterStatusIntake,
		FeeModel:      payload.FeeModel,
		FlatFeeAmount: payload.FlatFeeAmount,
		HourlyRate:    payload.HourlyRate,
		AssignedToID:  payload.AssignedToID,
	}
	if payload.Status != "" {
		matter.Status = payload.Status
	}
	if matter.FeeModel == "" {
		matter.FeeModel = models.FeeModelProgressive
	}

	if err := services.ValidateMatter(&matter); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	matterNumber, err := services.EnsureUniqueMatterNumber(db.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to generate matter number",
		})
	}
	matter.MatterNumber = matterNumber

	if err := db.DB.Create(&matter).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create matter",
		})
	}

	return c.JSON(http.StatusCreated, matter)
}

// UpdateMatterHandler merges a partial payload into an existing matter.
// Status is assigned directly from the payload; there is no transition check.
func UpdateMatterHandler(c echo.Context) error {
	id := c.Param("id")
	var matter models.Matter
	if err := db.DB.First(&matter, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Matter not found",
		})
	}

	payload := new(MatterPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.Title != "" {
		matter.Title = payload.Title
	}
	if payload.Description != "" {
		matter.Description = payload.Description
	}
	if payload.PracticeArea != "" {
		matter.PracticeArea = payload.PracticeArea
	}
	if payload.FeeModel != "" {
		matter.FeeModel = payload.FeeModel
	}
	if payload.FlatFeeAmount != nil {
		matter.FlatFeeAmount = payload.FlatFeeAmount
	}
	if payload.HourlyRate != nil {
		matter.HourlyRate = payload.HourlyRate
	}
	if payload.AssignedToID != nil {
		matter.AssignedToID = payload.AssignedToID
	}
	if payload.Status != "" && payload.Status != matter.Status {
		matter.Status = payload.Status
		if payload.Status == models.MatterStatusClosed {
			now := time.Now()
			matter.ClosedAt = &now
		} else {
			matter.ClosedAt = nil
		}
	}

	if err := services.ValidateMatter(&matter); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	if err := db.DB.Save(&matter).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to update matter",
		})
	}

	return c.JSON(http.StatusOK, matter)
}

// DeleteMatterHandler soft-deletes a matter
func DeleteMatterHandler(c echo.Context) error {
	id := c.Param("id")
	var matter models.Matter
	if err := db.DB.First(&matter, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Matter not found",
		})
	}

	if err := db.DB.Delete(&matter).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete matter",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
