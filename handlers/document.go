package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"lexdesk_app_go/db"
	"lexdesk_app_go/middleware"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SignedURLExpiration is how long download links stay valid
const SignedURLExpiration = 15 * time.Minute

// GetMatterDocumentsHandler lists documents attached to a matter
func GetMatterDocumentsHandler(c echo.Context) error {
	matterID := c.Param("id")
	var matter models.Matter
	if err := db.DB.First(&matter, "id = ?", matterID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Matter not found",
		})
	}

	var documents []models.Document
	err := db.DB.Preload("Template").Preload("GeneratedBy").
		Where("matter_id = ?", matterID).
		Order("created_at DESC").
		Find(&documents).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch documents",
		})
	}

	return c.JSON(http.StatusOK, documents)
}

// UploadDocumentHandler attaches an uploaded file to a matter
func UploadDocumentHandler(c echo.Context) error {
	matterID := c.Param("id")
	var matter models.Matter
	if err := db.DB.First(&matter, "id = ?", matterID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Matter not found",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "A file is required",
		})
	}

	name := c.FormValue("name")
	if name == "" {
		name = file.Filename
	}

	key := services.GenerateMatterDocumentKey(matterID, file.Filename)
	result, err := services.Storage.Upload(c.Request().Context(), file, key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to store file",
		})
	}

	document := models.Document{
		MatterID: matterID,
		Name:     name,
		FileURL:  services.FormatStorageURI(services.StorageBucket, result.Key),
		MimeType: result.MimeType,
		FileSize: result.FileSize,
		Version:  nextDocumentVersion(matterID, name),
	}
	if user := middleware.GetCurrentUser(c); user != nil {
		document.GeneratedByID = &user.ID
	}

	if err := db.DB.Create(&document).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save document record",
		})
	}

	return c.JSON(http.StatusCreated, document)
}

// nextDocumentVersion returns one past the highest version for this
// matter+name, starting at 1
func nextDocumentVersion(matterID, name string) int {
	var latest models.Document
	err := db.DB.Where("matter_id = ? AND name = ?", matterID, name).
		Order("version DESC").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1
	}
	if err != nil {
		return 1
	}
	return latest.Version + 1
}

// GenerateDocumentPayload is the body for generating a document from a template
type GenerateDocumentPayload struct {
	TemplateID string            `json:"template_id"`
	Title      string            `json:"title"`
	Values     map[string]string `json:"values"`
}

// GenerateDocumentHandler renders a template with the supplied variable
// values and stores the result as a matter document
func GenerateDocumentHandler(c echo.Context) error {
	matterID := c.Param("id")
	var matter models.Matter
	if err := db.DB.First(&matter, "id = ?", matterID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Matter not found",
		})
	}

	payload := new(GenerateDocumentPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if payload.TemplateID == "" || payload.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Template and title are required",
		})
	}

	var template models.DocumentTemplate
	if err := db.DB.First(&template, "id = ?", payload.TemplateID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Template not found",
		})
	}
	if !template.IsActive {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Template is inactive",
		})
	}

	renderer, err := services.RendererFor(template.OutputType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Unsupported template output type",
		})
	}

	generated, err := services.Generate(&template, payload.Values, payload.Title, renderer)
	if err != nil {
		var genErr *services.GenerationError
		if errors.As(err, &genErr) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"error": "Document generation failed",
				"kind":  genErr.Kind,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Document generation failed",
		})
	}

	key := services.GenerateGeneratedDocumentKey(matterID, generated.Filename)
	result, err := services.Storage.UploadReader(
		c.Request().Context(),
		bytes.NewReader(generated.Data),
		key,
		generated.MimeType,
		int64(len(generated.Data)),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to store generated document",
		})
	}

	document := models.Document{
		MatterID:        matterID,
		TemplateID:      &template.ID,
		TemplateVersion: template.Version,
		Name:            generated.Filename,
		FileURL:         services.FormatStorageURI(services.StorageBucket, result.Key),
		MimeType:        generated.MimeType,
		FileSize:        int64(len(generated.Data)),
		Version:         nextDocumentVersion(matterID, generated.Filename),
	}
	if user := middleware.GetCurrentUser(c); user != nil {
		document.GeneratedByID = &user.ID
	}

	if err := db.DB.Create(&document).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save document record",
		})
	}

	return c.JSON(http.StatusCreated, document)
}

// DownloadDocumentHandler resolves a document's file URL. Stored files get a
// short-lived signed URL; when no URL can be produced the file is streamed.
func DownloadDocumentHandler(c echo.Context) error {
	id := c.Param("id")
	var document models.Document
	if err := db.DB.First(&document, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Document not found",
		})
	}

	ctx := c.Request().Context()
	url, err := services.ResolveFileURL(ctx, document.FileURL, SignedURLExpiration)
	if err == nil && url != "" && url != document.FileURL {
		return c.Redirect(http.StatusFound, url)
	}
	if !services.IsStorageURI(document.FileURL) {
		return c.Redirect(http.StatusFound, document.FileURL)
	}

	// No usable URL; stream the object directly
	_, key, err := services.ParseStorageURI(document.FileURL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Invalid document file reference",
		})
	}
	reader, contentType, err := services.Storage.Get(ctx, key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch document",
		})
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+document.Name)
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteDocumentHandler removes a document record and its stored file
func DeleteDocumentHandler(c echo.Context) error {
	id := c.Param("id")
	var document models.Document
	if err := db.DB.First(&document, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Document not found",
		})
	}

	if services.IsStorageURI(document.FileURL) {
		if _, key, err := services.ParseStorageURI(document.FileURL); err == nil {
			if err := services.Storage.Delete(c.Request().Context(), key); err != nil {
				// Keep the record if the blob cannot be removed
				return c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "Failed to delete stored file",
				})
			}
		}
	}

	if err := db.DB.Delete(&document).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete document",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
