package handlers

import (
	"html"
	"net/http"

	"lexdesk_app_go/db"
	"lexdesk_app_go/middleware"
	"lexdesk_app_go/models"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
)

var templatePolicy = bluemonday.UGCPolicy()

// sanitizeTemplateContent strips markup from a template body. The stored
// content is plain text handed to the renderers, which escape it themselves,
// so entities introduced by the sanitizer are unescaped: an apostrophe or
// ampersand in the body must survive to the generated document verbatim.
func sanitizeTemplateContent(content string) string {
	return html.UnescapeString(templatePolicy.Sanitize(content))
}

// TemplatePayload is the create/update body for a document template
type TemplatePayload struct {
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Content    string   `json:"content"`
	Variables  []string `json:"variables"`
	OutputType string   `json:"output_type"`
	IsActive   *bool    `json:"is_active"`
}

// GetTemplatesHandler lists templates, optionally filtered by category or
// active state
func GetTemplatesHandler(c echo.Context) error {
	query := db.DB.Preload("CreatedBy").Order("name ASC")

	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if active := c.QueryParam("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	}

	var templates []models.DocumentTemplate
	if err := query.Find(&templates).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch templates",
		})
	}

	return c.JSON(http.StatusOK, templates)
}

// GetTemplateHandler returns a single template
func GetTemplateHandler(c echo.Context) error {
	id := c.Param("id")
	var template models.DocumentTemplate
	if err := db.DB.Preload("CreatedBy").First(&template, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Template not found",
		})
	}
	return c.JSON(http.StatusOK, template)
}

// CreateTemplateHandler creates a document template. Content is sanitized
// before storage since it is rendered into generated documents.
func CreateTemplateHandler(c echo.Context) error {
	payload := new(TemplatePayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.Name == "" || payload.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Name and content are required",
		})
	}

	outputType := models.OutputTypePDF
	if payload.OutputType != "" {
		if !models.IsValidOutputType(payload.OutputType) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Output type must be pdf or docx",
			})
		}
		outputType = payload.OutputType
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	template := models.DocumentTemplate{
		Name:        payload.Name,
		Category:    payload.Category,
		Content:     sanitizeTemplateContent(payload.Content),
		OutputType:  outputType,
		Version:     1,
		IsActive:    true,
		CreatedByID: user.ID,
	}
	if payload.IsActive != nil {
		template.IsActive = *payload.IsActive
	}
	if err := template.SetVariableNames(payload.Variables); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid variables",
		})
	}

	if err := db.DB.Create(&template).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create template",
		})
	}

	return c.JSON(http.StatusCreated, template)
}

// UpdateTemplateHandler merges a partial payload into a template. A content
// change bumps the version so generated documents can record which revision
// they came from.
func UpdateTemplateHandler(c echo.Context) error {
	id := c.Param("id")
	var template models.DocumentTemplate
	if err := db.DB.First(&template, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Template not found",
		})
	}

	payload := new(TemplatePayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.Name != "" {
		template.Name = payload.Name
	}
	if payload.Category != "" {
		template.Category = payload.Category
	}
	if payload.OutputType != "" {
		if !models.IsValidOutputType(payload.OutputType) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Output type must be pdf or docx",
			})
		}
		template.OutputType = payload.OutputType
	}
	if payload.IsActive != nil {
		template.IsActive = *payload.IsActive
	}
	if payload.Variables != nil {
		if err := template.SetVariableNames(payload.Variables); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid variables",
			})
		}
	}
	if payload.Content != "" {
		sanitized := sanitizeTemplateContent(payload.Content)
		if sanitized != template.Content {
			template.Content = sanitized
			template.Version++
		}
	}

	if err := db.DB.Save(&template).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to update template",
		})
	}

	return c.JSON(http.StatusOK, template)
}

// DeleteTemplateHandler soft-deletes a template. Documents generated from it
// keep their template_id and recorded version.
func DeleteTemplateHandler(c echo.Context) error {
	id := c.Param("id")
	var template models.DocumentTemplate
	if err := db.DB.First(&template, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Template not found",
		})
	}

	if err := db.DB.Delete(&template).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete template",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
