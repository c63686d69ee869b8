package handlers

import (
	"net/http"
	"strings"
	"testing"

	"lexdesk_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateInvoiceHandler(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	t.Run("Totals computed server-side", func(t *testing.T) {
		// Client-supplied amount on the line is ignored; quantity times unit
		// price wins
		body := strings.NewReader(`{
			"matter_id": "` + matter.ID + `",
			"line_items": [
				{"description": "Consultation", "quantity": 2, "unit_price": 150, "amount": 1},
				{"description": "Filing fee", "quantity": 1, "unit_price": 75.5}
			],
			"tax_rate": 0.1,
			"discount": 25.5
		}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/invoices", body)

		err := CreateInvoiceHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var invoice models.Invoice
		assert.NoError(t, database.Where("matter_id = ?", matter.ID).First(&invoice).Error)
		assert.Equal(t, models.InvoiceStatusDraft, invoice.Status)
		assert.Regexp(t, `^INV-\d{4}-\d{5}$`, invoice.InvoiceNumber)

		assert.InDelta(t, 375.5, invoice.Subtotal, 0.001)
		assert.InDelta(t, 25.5, invoice.Discount, 0.001)
		assert.InDelta(t, 35.0, invoice.Tax, 0.001)
		assert.InDelta(t, 385.0, invoice.Total, 0.001)

		items, err := invoice.Items()
		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.InDelta(t, 300.0, items[0].Amount, 0.001)
	})

	t.Run("Pulls unbilled time entries", func(t *testing.T) {
		user := createTestUser(t, database, models.RoleAttorney)
		entry := &models.TimeEntry{
			MatterID:    matter.ID,
			UserID:      user.ID,
			Description: "Deposition prep",
			Hours:       3,
			Rate:        200,
		}
		assert.NoError(t, database.Create(entry).Error)

		body := strings.NewReader(`{
			"matter_id": "` + matter.ID + `",
			"time_entry_ids": ["` + entry.ID + `"]
		}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/invoices", body)

		err := CreateInvoiceHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var billed models.TimeEntry
		database.First(&billed, "id = ?", entry.ID)
		assert.True(t, billed.IsBilled())

		var invoice models.Invoice
		database.Order("created_at DESC").First(&invoice, "matter_id = ?", matter.ID)
		assert.InDelta(t, 600.0, invoice.Total, 0.001)
	})

	t.Run("Missing matter rejected", func(t *testing.T) {
		body := strings.NewReader(`{"matter_id": "missing"}`)
		_, c, rec := setupEcho(http.MethodPost, "/api/invoices", body)

		err := CreateInvoiceHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateInvoiceStatusHandler(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	invoice := &models.Invoice{
		MatterID:      matter.ID,
		InvoiceNumber: "INV-2026-10001",
		Status:        models.InvoiceStatusDraft,
		Total:         500,
	}
	assert.NoError(t, database.Create(invoice).Error)

	t.Run("Draft to sent stamps issued_at", func(t *testing.T) {
		body := strings.NewReader(`{"status": "SENT"}`)
		_, c, rec := setupEcho(http.MethodPut, "/api/invoices/"+invoice.ID+"/status", body)
		c.SetParamNames("id")
		c.SetParamValues(invoice.ID)

		err := UpdateInvoiceStatusHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Invoice
		database.First(&updated, "id = ?", invoice.ID)
		assert.Equal(t, models.InvoiceStatusSent, updated.Status)
		assert.NotNil(t, updated.IssuedAt)
		assert.True(t, updated.IsOutstanding())
	})

	t.Run("Sent to paid stamps paid_at", func(t *testing.T) {
		body := strings.NewReader(`{"status": "PAID"}`)
		_, c, rec := setupEcho(http.MethodPut, "/api/invoices/"+invoice.ID+"/status", body)
		c.SetParamNames("id")
		c.SetParamValues(invoice.ID)

		err := UpdateInvoiceStatusHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Invoice
		database.First(&updated, "id = ?", invoice.ID)
		assert.Equal(t, models.InvoiceStatusPaid, updated.Status)
		assert.NotNil(t, updated.PaidAt)
		assert.False(t, updated.IsOutstanding())
	})

	t.Run("Invalid status rejected", func(t *testing.T) {
		body := strings.NewReader(`{"status": "VOID"}`)
		_, c, rec := setupEcho(http.MethodPut, "/api/invoices/"+invoice.ID+"/status", body)
		c.SetParamNames("id")
		c.SetParamValues(invoice.ID)

		err := UpdateInvoiceStatusHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateInvoiceHandlerOnlyDrafts(t *testing.T) {
	database := setupTestDB(t)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	invoice := &models.Invoice{
		MatterID:      matter.ID,
		InvoiceNumber: "INV-2026-10002",
		Status:        models.InvoiceStatusSent,
	}
	assert.NoError(t, database.Create(invoice).Error)

	body := strings.NewReader(`{"line_items": [{"description": "x", "quantity": 1, "unit_price": 10}]}`)
	_, c, rec := setupEcho(http.MethodPut, "/api/invoices/"+invoice.ID, body)
	c.SetParamNames("id")
	c.SetParamValues(invoice.ID)

	err := UpdateInvoiceHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteInvoiceHandlerReleasesTimeEntries(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, models.RoleAttorney)
	client := createTestClient(t, database)
	matter := createTestMatter(t, database, client.ID)

	invoice := &models.Invoice{
		MatterID:      matter.ID,
		InvoiceNumber: "INV-2026-10003",
		Status:        models.InvoiceStatusDraft,
	}
	assert.NoError(t, database.Create(invoice).Error)

	entry := &models.TimeEntry{
		MatterID:    matter.ID,
		UserID:      user.ID,
		Description: "Research",
		Hours:       1,
		Rate:        100,
		InvoiceID:   &invoice.ID,
	}
	assert.NoError(t, database.Create(entry).Error)

	_, c, rec := setupEcho(http.MethodDelete, "/api/invoices/"+invoice.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(invoice.ID)

	err := DeleteInvoiceHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var released models.TimeEntry
	database.First(&released, "id = ?", entry.ID)
	assert.False(t, released.IsBilled())
}
