package handlers

import (
	"net/http"
	"strings"
	"testing"

	"lexdesk_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateTemplateHandler(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, models.RoleAttorney)

	t.Run("Success", func(t *testing.T) {
		body := strings.NewReader(`{
			"name": "Engagement Letter",
			"category": "engagement",
			"content": "Dear {{client_name}}, re {{matter_number}}",
			"variables": ["client_name", "matter_number"],
			"output_type": "docx"
		}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/templates", body)
		c.Set("user", user)

		err := CreateTemplateHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var template models.DocumentTemplate
		assert.NoError(t, database.Where("name = ?", "Engagement Letter").First(&template).Error)
		assert.Equal(t, 1, template.Version)
		assert.Equal(t, models.OutputTypeDOCX, template.OutputType)
		assert.True(t, template.IsActive)

		names, err := template.VariableNames()
		assert.NoError(t, err)
		assert.Equal(t, []string{"client_name", "matter_number"}, names)
	})

	t.Run("Content is sanitized", func(t *testing.T) {
		body := strings.NewReader(`{
			"name": "Sneaky",
			"content": "Hello <script>alert(1)</script>{{client_name}}",
			"variables": ["client_name"]
		}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/templates", body)
		c.Set("user", user)

		err := CreateTemplateHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var template models.DocumentTemplate
		database.Where("name = ?", "Sneaky").First(&template)
		assert.NotContains(t, template.Content, "<script>")
		assert.Contains(t, template.Content, "{{client_name}}")
	})

	t.Run("Punctuation survives sanitization", func(t *testing.T) {
		body := strings.NewReader(`{
			"name": "Fee Letter",
			"content": "Smith's fee is $100 & costs for {{client_name}}",
			"variables": ["client_name"]
		}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/templates", body)
		c.Set("user", user)

		err := CreateTemplateHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var template models.DocumentTemplate
		database.Where("name = ?", "Fee Letter").First(&template)
		assert.Equal(t, "Smith's fee is $100 & costs for {{client_name}}", template.Content)
		assert.NotContains(t, template.Content, "&#39;")
		assert.NotContains(t, template.Content, "&amp;")
	})

	t.Run("Invalid output type rejected", func(t *testing.T) {
		body := strings.NewReader(`{"name": "X", "content": "y", "output_type": "rtf"}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/templates", body)
		c.Set("user", user)

		err := CreateTemplateHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateTemplateHandlerVersioning(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, models.RoleAttorney)

	template := &models.DocumentTemplate{
		Name:        "Retainer",
		Content:     "Original body {{client_name}}",
		OutputType:  models.OutputTypePDF,
		Version:     1,
		IsActive:    true,
		CreatedByID: user.ID,
	}
	assert.NoError(t, template.SetVariableNames([]string{"client_name"}))
	assert.NoError(t, database.Create(template).Error)

	t.Run("Content change bumps version", func(t *testing.T) {
		body := strings.NewReader(`{"content": "Revised body {{client_name}}"}`)
		_, c, rec := setupEcho(http.MethodPut, "/api/templates/"+template.ID, body)
		c.SetParamNames("id")
		c.SetParamValues(template.ID)

		err := UpdateTemplateHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.DocumentTemplate
		database.First(&updated, "id = ?", template.ID)
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("Metadata-only change keeps version", func(t *testing.T) {
		body := strings.NewReader(`{"category": "billing"}`)
		_, c, rec := setupEcho(http.MethodPut, "/api/templates/"+template.ID, body)
		c.SetParamNames("id")
		c.SetParamValues(template.ID)

		err := UpdateTemplateHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.DocumentTemplate
		database.First(&updated, "id = ?", template.ID)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, "billing", updated.Category)
	})

	t.Run("Identical content keeps version", func(t *testing.T) {
		body := strings.NewReader(`{"content": "Revised body {{client_name}}"}`)
		_, c, rec := setupEcho(http.MethodPut, "/api/templates/"+template.ID, body)
		c.SetParamNames("id")
		c.SetParamValues(template.ID)

		err := UpdateTemplateHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.DocumentTemplate
		database.First(&updated, "id = ?", template.ID)
		assert.Equal(t, 2, updated.Version)
	})
}
