package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"lexdesk_app_go/config"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func multipartUpload(t *testing.T, path, field, filename string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("config", &config.Config{Environment: "test", EmailTestMode: true})
	return c, rec
}

func TestUploadDocumentHandler(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, models.RoleStaff)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	t.Run("Upload stores file and records version 1", func(t *testing.T) {
		c, rec := multipartUpload(t, "/api/matters/"+matter.ID+"/documents", "file", "retainer.pdf", []byte("%PDF-1.4 fake"))
		c.SetParamNames("id")
		c.SetParamValues(matter.ID)
		c.Set("user", user)

		err := UploadDocumentHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var document models.Document
		assert.NoError(t, database.Where("matter_id = ?", matter.ID).First(&document).Error)
		assert.Equal(t, 1, document.Version)
		assert.Equal(t, "retainer.pdf", document.Name)
		assert.True(t, services.IsStorageURI(document.FileURL))
		assert.Nil(t, document.TemplateID)
	})

	t.Run("Same name increments version", func(t *testing.T) {
		c, rec := multipartUpload(t, "/api/matters/"+matter.ID+"/documents", "file", "retainer.pdf", []byte("%PDF-1.4 v2"))
		c.SetParamNames("id")
		c.SetParamValues(matter.ID)
		c.Set("user", user)

		err := UploadDocumentHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var latest models.Document
		database.Where("matter_id = ? AND name = ?", matter.ID, "retainer.pdf").
			Order("version DESC").First(&latest)
		assert.Equal(t, 2, latest.Version)
	})

	t.Run("Missing file rejected", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/matters/"+matter.ID+"/documents", nil)
		c.SetParamNames("id")
		c.SetParamValues(matter.ID)

		err := UploadDocumentHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetMatterDocumentsHandler(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)
	other := createTestMatter(t, database, client.ID)

	database.Create(&models.Document{MatterID: matter.ID, Name: "mine.pdf", FileURL: "storage://documents/matters/x/mine.pdf"})
	database.Create(&models.Document{MatterID: other.ID, Name: "other.pdf", FileURL: "storage://documents/matters/y/other.pdf"})

	_, c, rec := setupEcho(http.MethodGet, "/api/matters/"+matter.ID+"/documents", nil)
	c.SetParamNames("id")
	c.SetParamValues(matter.ID)

	err := GetMatterDocumentsHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mine.pdf")
	assert.NotContains(t, rec.Body.String(), "other.pdf")
}

func TestDownloadDocumentHandler(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	t.Run("Plain URL redirects as-is", func(t *testing.T) {
		document := &models.Document{MatterID: matter.ID, Name: "external.pdf", FileURL: "https://files.example.com/external.pdf"}
		assert.NoError(t, database.Create(document).Error)

		_, c, rec := setupEcho(http.MethodGet, "/api/documents/"+document.ID+"/download", nil)
		c.SetParamNames("id")
		c.SetParamValues(document.ID)

		err := DownloadDocumentHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "https://files.example.com/external.pdf", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("Unknown document", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/documents/missing/download", nil)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := DownloadDocumentHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
