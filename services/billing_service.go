package services

import (
	"fmt"
	"log"
	"time"

	"lexdesk_app_go/models"

	"gorm.io/gorm"
)

// InvoiceTotals holds the server-computed amounts for an invoice.
// These are the authoritative figures; client-supplied totals are ignored.
type InvoiceTotals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// ComputeTotals computes invoice totals from line items. Line amount is
// quantity times unit price; the stored per-line Amount is recomputed too.
func ComputeTotals(items []models.LineItem, taxRate, discount float64) ([]models.LineItem, InvoiceTotals) {
	var subtotal float64
	for i := range items {
		items[i].Amount = items[i].Quantity * items[i].UnitPrice
		subtotal += items[i].Amount
	}

	if discount < 0 || discount > subtotal {
		discount = 0
	}
	if taxRate < 0 {
		taxRate = 0
	}

	taxable := subtotal - discount
	tax := taxable * taxRate

	return items, InvoiceTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    taxable + tax,
	}
}

// GenerateInvoiceNumber generates a unique invoice number.
// Format: INV-{YEAR}-{SEQUENCE}, e.g. INV-2026-00017
func GenerateInvoiceNumber(db *gorm.DB) (string, error) {
	currentYear := time.Now().Year()

	var maxInvoice models.Invoice
	err := db.Where("invoice_number LIKE ?", fmt.Sprintf("INV-%d-%%", currentYear)).
		Order("invoice_number DESC").
		First(&maxInvoice).Error

	sequence := 1
	if err == nil {
		var parsedSeq int
		_, scanErr := fmt.Sscanf(maxInvoice.InvoiceNumber, fmt.Sprintf("INV-%d-%%d", currentYear), &parsedSeq)
		if scanErr == nil {
			sequence = parsedSeq + 1
		}
	} else if err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to query max invoice number: %w", err)
	}

	return fmt.Sprintf("INV-%d-%05d", currentYear, sequence), nil
}

// ClientBalance is one row of the clients-with-balance aggregate
type ClientBalance struct {
	ClientID    string  `json:"client_id"`
	ClientName  string  `json:"client_name"`
	Outstanding float64 `json:"outstanding"`
}

// ClientBalances returns the outstanding balance per client, computed as the
// sum of totals of SENT and OVERDUE invoices across the client's matters.
// Clients with a zero balance are excluded.
func ClientBalances(db *gorm.DB) ([]ClientBalance, float64, error) {
	var invoices []models.Invoice
	err := db.Preload("Matter.Client").
		Where("status IN ?", []string{models.InvoiceStatusSent, models.InvoiceStatusOverdue}).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch outstanding invoices: %w", err)
	}

	byClient := make(map[string]*ClientBalance)
	order := []string{}
	var totalOutstanding float64

	for _, inv := range invoices {
		clientID := inv.Matter.ClientID
		if clientID == "" {
			continue
		}
		entry, ok := byClient[clientID]
		if !ok {
			entry = &ClientBalance{
				ClientID:   clientID,
				ClientName: inv.Matter.Client.FullName(),
			}
			byClient[clientID] = entry
			order = append(order, clientID)
		}
		entry.Outstanding += inv.Total
		totalOutstanding += inv.Total
	}

	balances := make([]ClientBalance, 0, len(order))
	for _, id := range order {
		if byClient[id].Outstanding > 0 {
			balances = append(balances, *byClient[id])
		}
	}

	return balances, totalOutstanding, nil
}

// MarkOverdueInvoices flips SENT invoices past their due date to OVERDUE.
// Run by the hourly background sweep.
func MarkOverdueInvoices(db *gorm.DB) (int64, error) {
	result := db.Model(&models.Invoice{}).
		Where("status = ? AND due_at IS NOT NULL AND due_at < ?", models.InvoiceStatusSent, time.Now()).
		Update("status", models.InvoiceStatusOverdue)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Marked %d invoices overdue", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

// UnbilledHours sums hours of time entries not yet attached to an invoice
func UnbilledHours(db *gorm.DB) (float64, error) {
	var entries []models.TimeEntry
	if err := db.Where("invoice_id IS NULL").Find(&entries).Error; err != nil {
		return 0, err
	}
	var hours float64
	for _, e := range entries {
		hours += e.Hours
	}
	return hours, nil
}

// AttachTimeEntries links unbilled time entries to an invoice and returns
// line items built from them
func AttachTimeEntries(db *gorm.DB, invoiceID string, entryIDs []string) ([]models.LineItem, error) {
	var entries []models.TimeEntry
	if err := db.Where("id IN ? AND invoice_id IS NULL", entryIDs).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch time entries: %w", err)
	}

	items := make([]models.LineItem, 0, len(entries))
	for _, e := range entries {
		if err := db.Model(&e).Update("invoice_id", invoiceID).Error; err != nil {
			return nil, fmt.Errorf("failed to attach time entry %s: %w", e.ID, err)
		}
		items = append(items, models.LineItem{
			Description: e.Description,
			Quantity:    e.Hours,
			UnitPrice:   e.Rate,
			Amount:      e.Hours * e.Rate,
		})
	}
	return items, nil
}
