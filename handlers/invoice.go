package handlers

import (
	"net/http"
	"time"

	"lexdesk_app_go/db"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
)

// InvoicePayload is the create/update body for an invoice. Subtotal, tax and
// total are never accepted from the client; only the inputs to the
// computation are.
type InvoicePayload struct {
	MatterID     string            `json:"matter_id"`
	LineItems    []models.LineItem `json:"line_items"`
	TaxRate      *float64          `json:"tax_rate"`
	Discount     *float64          `json:"discount"`
	DueAt        string            `json:"due_at"`
	TimeEntryIDs []string          `json:"time_entry_ids"`
}

// InvoiceStatusPayload is the body for the status transition endpoint
type InvoiceStatusPayload struct {
	Status string `json:"status"`
}

// GetInvoicesHandler lists invoices, optionally filtered by status or matter
func GetInvoicesHandler(c echo.Context) error {
	query := db.DB.Preload("Matter").Preload("Matter.Client").Order("created_at DESC")

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if matterID := c.QueryParam("matter_id"); matterID != "" {
		query = query.Where("matter_id = ?", matterID)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch invoices",
		})
	}

	return c.JSON(http.StatusOK, invoices)
}

// GetInvoiceHandler returns a single invoice
func GetInvoiceHandler(c echo.Context) error {
	id := c.Param("id")
	var invoice models.Invoice
	err := db.DB.Preload("Matter").Preload("Matter.Client").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Invoice not found",
		})
	}
	return c.JSON(http.StatusOK, invoice)
}

// CreateInvoiceHandler creates a draft invoice. Line items can be supplied
// directly, pulled from unbilled time entries, or both; totals are always
// recomputed server-side.
func CreateInvoiceHandler(c echo.Context) error {
	payload := new(InvoicePayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.MatterID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Matter is required",
		})
	}

	var matter models.Matter
	if err := db.DB.First(&matter, "id = ?", payload.MatterID).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Matter not found",
		})
	}

	invoiceNumber, err := services.GenerateInvoiceNumber(db.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to generate invoice number",
		})
	}

	invoice := models.Invoice{
		MatterID:      payload.MatterID,
		InvoiceNumber: invoiceNumber,
		Status:        models.InvoiceStatusDraft,
	}
	if payload.DueAt != "" {
		dueAt, err := services.ParseDate(payload.DueAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid due date",
			})
		}
		invoice.DueAt = &dueAt
	}

	if err := db.DB.Create(&invoice).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create invoice",
		})
	}

	items := payload.LineItems
	if len(payload.TimeEntryIDs) > 0 {
		attached, err := services.AttachTimeEntries(db.DB, invoice.ID, payload.TimeEntryIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to attach time entries",
			})
		}
		items = append(items, attached...)
	}

	if err := applyInvoiceTotals(&invoice, items, payload.TaxRate, payload.Discount); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to compute invoice totals",
		})
	}

	if err := db.DB.Save(&invoice).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save invoice",
		})
	}

	return c.JSON(http.StatusCreated, invoice)
}

func applyInvoiceTotals(invoice *models.Invoice, items []models.LineItem, taxRate, discount *float64) error {
	var rate, disc float64
	if taxRate != nil {
		rate = *taxRate
	}
	if discount != nil {
		disc = *discount
	}

	computedItems, totals := services.ComputeTotals(items, rate, disc)
	if err := invoice.SetItems(computedItems); err != nil {
		return err
	}
	invoice.Subtotal = totals.Subtotal
	invoice.Tax = totals.Tax
	invoice.Discount = totals.Discount
	invoice.Total = totals.Total
	return nil
}

// UpdateInvoiceHandler replaces the line items of a draft invoice and
// recomputes totals. Only drafts are editable.
func UpdateInvoiceHandler(c echo.Context) error {
	id := c.Param("id")
	var invoice models.Invoice
	if err := db.DB.First(&invoice, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Invoice not found",
		})
	}

	if invoice.Status != models.InvoiceStatusDraft {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "Only draft invoices can be edited",
		})
	}

	payload := new(InvoicePayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	items := payload.LineItems
	if len(payload.TimeEntryIDs) > 0 {
		attached, err := services.AttachTimeEntries(db.DB, invoice.ID, payload.TimeEntryIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to attach time entries",
			})
		}
		items = append(items, attached...)
	}

	if err := applyInvoiceTotals(&invoice, items, payload.TaxRate, payload.Discount); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to compute invoice totals",
		})
	}

	if payload.DueAt != "" {
		dueAt, err := services.ParseDate(payload.DueAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid due date",
			})
		}
		invoice.DueAt = &dueAt
	}

	if err := db.DB.Save(&invoice).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to update invoice",
		})
	}

	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoiceStatusHandler transitions an invoice between statuses and
// stamps issued/paid timestamps
func UpdateInvoiceStatusHandler(c echo.Context) error {
	id := c.Param("id")
	var invoice models.Invoice
	if err := db.DB.First(&invoice, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Invoice not found",
		})
	}

	payload := new(InvoiceStatusPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if !models.IsValidInvoiceStatus(payload.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid invoice status",
		})
	}

	now := time.Now()
	switch payload.Status {
	case models.InvoiceStatusSent:
		if invoice.IssuedAt == nil {
			invoice.IssuedAt = &now
		}
		invoice.PaidAt = nil
	case models.InvoiceStatusPaid:
		invoice.PaidAt = &now
	case models.InvoiceStatusDraft:
		invoice.IssuedAt = nil
		invoice.PaidAt = nil
	}
	invoice.Status = payload.Status

	if err := db.DB.Save(&invoice).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to update invoice status",
		})
	}

	return c.JSON(http.StatusOK, invoice)
}

// DeleteInvoiceHandler deletes a draft invoice and releases its time entries
func DeleteInvoiceHandler(c echo.Context) error {
	id := c.Param("id")
	var invoice models.Invoice
	if err := db.DB.First(&invoice, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Invoice not found",
		})
	}

	if invoice.Status != models.InvoiceStatusDraft {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "Only draft invoices can be deleted",
		})
	}

	// Release billed time entries so they can be invoiced again
	if err := db.DB.Model(&models.TimeEntry{}).
		Where("invoice_id = ?", invoice.ID).
		Update("invoice_id", nil).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to release time entries",
		})
	}

	if err := db.DB.Delete(&invoice).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete invoice",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
