package handlers

import (
	"html"
	"net/http"

	"lexdesk_app_go/db"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
)

var intakePolicy = bluemonday.StrictPolicy()

// stripIntakeText removes all markup from a free-text field. The fields are
// stored as plain text, so sanitizer entities are unescaped; a name like
// O'Brien must not become O&#39;Brien.
func stripIntakeText(s string) string {
	return html.UnescapeString(intakePolicy.Sanitize(s))
}

// IntakePayload is the public intake form submission
type IntakePayload struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PracticeArea string `json:"practice_area"`
	Description  string `json:"description"`
}

// IntakeHandler accepts a public intake submission: it creates (or reuses) a
// client and opens an INTAKE matter, then notifies all staff. The form is
// unauthenticated, so every text field is stripped of markup.
func IntakeHandler(c echo.Context) error {
	payload := new(IntakePayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	payload.FirstName = stripIntakeText(payload.FirstName)
	payload.LastName = stripIntakeText(payload.LastName)
	payload.Description = stripIntakeText(payload.Description)

	if payload.FirstName == "" && payload.LastName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Name is required",
		})
	}
	if payload.Email == "" && payload.Phone == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Email or phone is required",
		})
	}
	if !models.IsValidPracticeArea(payload.PracticeArea) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid practice area",
		})
	}

	// Reuse an existing client record when the email matches
	var client models.Client
	found := false
	if payload.Email != "" {
		if err := db.DB.Where("email = ?", payload.Email).First(&client).Error; err == nil {
			found = true
		}
	}
	if !found {
		client = models.Client{
			FirstName:              payload.FirstName,
			LastName:               payload.LastName,
			Email:                  payload.Email,
			PreferredContactMethod: models.ContactMethodEmail,
			IsActive:               true,
		}
		if payload.Email == "" {
			client.PreferredContactMethod = models.ContactMethodPhone
		}
		if payload.Phone != "" {
			if err := client.SetPhoneList([]models.Phone{{Label: "primary", Number: payload.Phone}}); err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": "Invalid phone",
				})
			}
		}
		if err := db.DB.Create(&client).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to create client",
			})
		}
	}

	matterNumber, err := services.EnsureUniqueMatterNumber(db.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to generate matter number",
		})
	}

	matter := models.Matter{
		ClientID:     client.ID,
		MatterNumber: matterNumber,
		Title:        "Intake: " + client.FullName(),
		Description:  payload.Description,
		PracticeArea: payload.PracticeArea,
		Status:       models.MatterStatusIntake,
		FeeModel:     models.FeeModelProgressive,
	}
	if err := db.DB.Create(&matter).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create matter",
		})
	}

	// Broadcast to all staff
	svc := services.NewNotificationService(db.DB)
	if err := svc.CreateNotification(&models.Notification{
		MatterID: &matter.ID,
		Type:     models.NotificationTypeIntake,
		Title:    "New intake submission",
		Message:  client.FullName() + " submitted an intake form (" + payload.PracticeArea + ")",
		LinkURL:  "/matters/" + matter.ID,
	}); err != nil {
		services.LogSecurityEvent("INTAKE_NOTIFY_FAILED", "", err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"matter_number": matter.MatterNumber,
		"message":       "Thank you. Our office will contact you shortly.",
	})
}
