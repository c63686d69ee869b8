package handlers

import (
	"net/http"
	"strings"
	"testing"

	"lexdesk_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateMatterHandler(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)

	t.Run("Success assigns matter number", func(t *testing.T) {
		body := strings.NewReader(`{
			"client_id": "` + client.ID + `",
			"title": "State v. Doe",
			"practice_area": "CRIMINAL",
			"fee_model": "FLAT_RATE",
			"flat_fee_amount": 5000
		}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/matters", body)

		err := CreateMatterHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var matter models.Matter
		assert.NoError(t, database.Where("title = ?", "State v. Doe").First(&matter).Error)
		assert.Regexp(t, `^MT-\d{4}-\d{5}$`, matter.MatterNumber)
		assert.Equal(t, models.MatterStatusIntake, matter.Status)
	})

	t.Run("Unknown client rejected", func(t *testing.T) {
		body := strings.NewReader(`{"client_id": "missing", "title": "X", "practice_area": "SSD"}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/matters", body)

		err := CreateMatterHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Flat rate without amount rejected", func(t *testing.T) {
		body := strings.NewReader(`{
			"client_id": "` + client.ID + `",
			"title": "Incomplete",
			"practice_area": "SSD",
			"fee_model": "FLAT_RATE"
		}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/matters", body)

		err := CreateMatterHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "flat fee")
	})

	t.Run("Invalid practice area rejected", func(t *testing.T) {
		body := strings.NewReader(`{
			"client_id": "` + client.ID + `",
			"title": "Bad area",
			"practice_area": "TAX",
			"fee_model": "FLAT_RATE",
			"flat_fee_amount": 100
		}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/matters", body)

		err := CreateMatterHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateMatterHandler(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	t.Run("Closing stamps closed_at", func(t *testing.T) {
		body := strings.NewReader(`{"status": "CLOSED"}`)
		_, c, rec := setupEcho(http.MethodPut, "/api/matters/"+matter.ID, body)
		c.SetParamNames("id")
		c.SetParamValues(matter.ID)

		err := UpdateMatterHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Matter
		database.First(&updated, "id = ?", matter.ID)
		assert.Equal(t, models.MatterStatusClosed, updated.Status)
		assert.NotNil(t, updated.ClosedAt)
	})

	t.Run("Reopening clears closed_at", func(t *testing.T) {
		body := strings.NewReader(`{"status": "OPEN"}`)
		_, c, rec := setupEcho(http.MethodPut, "/api/matters/"+matter.ID, body)
		c.SetParamNames("id")
		c.SetParamValues(matter.ID)

		err := UpdateMatterHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Matter
		database.First(&updated, "id = ?", matter.ID)
		assert.Equal(t, models.MatterStatusOpen, updated.Status)
		assert.Nil(t, updated.ClosedAt)
	})
}

func TestGetMattersHandler(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)
	database.Model(matter).Update("status", models.MatterStatusPending)

	other := createTestMatter(t, database, client.ID)
	_ = other

	t.Run("Status filter", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/matters?status=PENDING", nil)

		err := GetMattersHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), matter.MatterNumber)
		assert.NotContains(t, rec.Body.String(), other.MatterNumber)
	})

	t.Run("Client filter", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/matters?client_id="+client.ID, nil)

		err := GetMattersHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), matter.MatterNumber)
		assert.Contains(t, rec.Body.String(), other.MatterNumber)
	})
}
