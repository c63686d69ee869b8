package services

import (
	"fmt"
	"testing"
	"time"

	"lexdesk_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	t.Run("Recomputes line amounts and totals", func(t *testing.T) {
		items := []models.LineItem{
			{Description: "Research", Quantity: 2, UnitPrice: 150, Amount: 1},
			{Description: "Drafting", Quantity: 1, UnitPrice: 75.5, Amount: 9999},
		}

		computed, totals := ComputeTotals(items, 0.1, 25.5)

		assert.Equal(t, 300.0, computed[0].Amount)
		assert.Equal(t, 75.5, computed[1].Amount)
		assert.Equal(t, 375.5, totals.Subtotal)
		assert.Equal(t, 25.5, totals.Discount)
		assert.InDelta(t, 35.0, totals.Tax, 0.0001)
		assert.InDelta(t, 385.0, totals.Total, 0.0001)
	})

	t.Run("Negative discount clamps to zero", func(t *testing.T) {
		items := []models.LineItem{{Quantity: 1, UnitPrice: 100}}
		_, totals := ComputeTotals(items, 0, -50)
		assert.Equal(t, 0.0, totals.Discount)
		assert.Equal(t, 100.0, totals.Total)
	})

	t.Run("Discount above subtotal clamps to zero", func(t *testing.T) {
		items := []models.LineItem{{Quantity: 1, UnitPrice: 100}}
		_, totals := ComputeTotals(items, 0, 500)
		assert.Equal(t, 0.0, totals.Discount)
		assert.Equal(t, 100.0, totals.Total)
	})

	t.Run("Negative tax rate clamps to zero", func(t *testing.T) {
		items := []models.LineItem{{Quantity: 1, UnitPrice: 100}}
		_, totals := ComputeTotals(items, -0.2, 0)
		assert.Equal(t, 0.0, totals.Tax)
		assert.Equal(t, 100.0, totals.Total)
	})

	t.Run("Tax applies after discount", func(t *testing.T) {
		items := []models.LineItem{{Quantity: 1, UnitPrice: 200}}
		_, totals := ComputeTotals(items, 0.1, 100)
		assert.InDelta(t, 10.0, totals.Tax, 0.0001)
		assert.InDelta(t, 110.0, totals.Total, 0.0001)
	})

	t.Run("Empty items", func(t *testing.T) {
		_, totals := ComputeTotals(nil, 0.1, 10)
		assert.Equal(t, 0.0, totals.Subtotal)
		assert.Equal(t, 0.0, totals.Total)
	})
}

func TestGenerateInvoiceNumber(t *testing.T) {
	db := setupTestDB(t, &models.Client{}, &models.Matter{}, &models.Invoice{})
	client := createClient(t, db, "Ivan", "Petrov")
	matter := createMatter(t, db, client.ID, "MT-2026-00010")

	year := time.Now().Year()

	first, err := GenerateInvoiceNumber(db)
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-00001", year), first)

	assert.NoError(t, db.Create(&models.Invoice{MatterID: matter.ID, InvoiceNumber: first}).Error)

	second, err := GenerateInvoiceNumber(db)
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-00002", year), second)
}

func TestClientBalances(t *testing.T) {
	db := setupTestDB(t, &models.Client{}, &models.Matter{}, &models.Invoice{})
	owing := createClient(t, db, "Alice", "Ngata")
	settled := createClient(t, db, "Bob", "Lee")
	owingMatter := createMatter(t, db, owing.ID, "MT-2026-00020")
	settledMatter := createMatter(t, db, settled.ID, "MT-2026-00021")

	assert.NoError(t, db.Create(&models.Invoice{MatterID: owingMatter.ID, InvoiceNumber: "INV-2026-10001", Status: models.InvoiceStatusSent, Total: 150.5}).Error)
	assert.NoError(t, db.Create(&models.Invoice{MatterID: owingMatter.ID, InvoiceNumber: "INV-2026-10002", Status: models.InvoiceStatusOverdue, Total: 49.5}).Error)
	assert.NoError(t, db.Create(&models.Invoice{MatterID: owingMatter.ID, InvoiceNumber: "INV-2026-10003", Status: models.InvoiceStatusDraft, Total: 999}).Error)
	assert.NoError(t, db.Create(&models.Invoice{MatterID: settledMatter.ID, InvoiceNumber: "INV-2026-10004", Status: models.InvoiceStatusPaid, Total: 500}).Error)

	balances, total, err := ClientBalances(db)
	assert.NoError(t, err)
	assert.Len(t, balances, 1)
	assert.Equal(t, owing.ID, balances[0].ClientID)
	assert.Equal(t, "Alice Ngata", balances[0].ClientName)
	assert.Equal(t, 200.0, balances[0].Outstanding)
	assert.Equal(t, 200.0, total)
}

func TestMarkOverdueInvoices(t *testing.T) {
	db := setupTestDB(t, &models.Client{}, &models.Matter{}, &models.Invoice{})
	client := createClient(t, db, "Carol", "Diaz")
	matter := createMatter(t, db, client.ID, "MT-2026-00030")

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	stale := models.Invoice{MatterID: matter.ID, InvoiceNumber: "INV-2026-20001", Status: models.InvoiceStatusSent, DueAt: &past}
	current := models.Invoice{MatterID: matter.ID, InvoiceNumber: "INV-2026-20002", Status: models.InvoiceStatusSent, DueAt: &future}
	noDue := models.Invoice{MatterID: matter.ID, InvoiceNumber: "INV-2026-20003", Status: models.InvoiceStatusSent}
	draft := models.Invoice{MatterID: matter.ID, InvoiceNumber: "INV-2026-20004", Status: models.InvoiceStatusDraft, DueAt: &past}
	assert.NoError(t, db.Create(&stale).Error)
	assert.NoError(t, db.Create(&current).Error)
	assert.NoError(t, db.Create(&noDue).Error)
	assert.NoError(t, db.Create(&draft).Error)

	count, err := MarkOverdueInvoices(db)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var reloaded models.Invoice
	db.First(&reloaded, "id = ?", stale.ID)
	assert.Equal(t, models.InvoiceStatusOverdue, reloaded.Status)

	reloaded = models.Invoice{}
	db.First(&reloaded, "id = ?", current.ID)
	assert.Equal(t, models.InvoiceStatusSent, reloaded.Status)

	reloaded = models.Invoice{}
	db.First(&reloaded, "id = ?", draft.ID)
	assert.Equal(t, models.InvoiceStatusDraft, reloaded.Status)
}

func TestUnbilledHours(t *testing.T) {
	db := setupTestDB(t, &models.User{}, &models.Client{}, &models.Matter{}, &models.TimeEntry{}, &models.Invoice{})
	client := createClient(t, db, "Evan", "Moss")
	matter := createMatter(t, db, client.ID, "MT-2026-00040")

	invoiceID := "some-invoice-id"
	assert.NoError(t, db.Create(&models.TimeEntry{MatterID: matter.ID, UserID: "u1", Description: "call", Hours: 1.5, Rate: 200}).Error)
	assert.NoError(t, db.Create(&models.TimeEntry{MatterID: matter.ID, UserID: "u1", Description: "draft", Hours: 2.0, Rate: 200}).Error)
	assert.NoError(t, db.Create(&models.TimeEntry{MatterID: matter.ID, UserID: "u1", Description: "billed", Hours: 4.0, Rate: 200, InvoiceID: &invoiceID}).Error)

	hours, err := UnbilledHours(db)
	assert.NoError(t, err)
	assert.Equal(t, 3.5, hours)
}

func TestAttachTimeEntries(t *testing.T) {
	db := setupTestDB(t, &models.User{}, &models.Client{}, &models.Matter{}, &models.TimeEntry{}, &models.Invoice{})
	client := createClient(t, db, "Fay", "Osei")
	matter := createMatter(t, db, client.ID, "MT-2026-00050")

	invoice := models.Invoice{MatterID: matter.ID, InvoiceNumber: "INV-2026-30001"}
	assert.NoError(t, db.Create(&invoice).Error)

	otherInvoiceID := "other-invoice"
	free := models.TimeEntry{MatterID: matter.ID, UserID: "u1", Description: "research", Hours: 2, Rate: 150}
	taken := models.TimeEntry{MatterID: matter.ID, UserID: "u1", Description: "already billed", Hours: 3, Rate: 150, InvoiceID: &otherInvoiceID}
	assert.NoError(t, db.Create(&free).Error)
	assert.NoError(t, db.Create(&taken).Error)

	items, err := AttachTimeEntries(db, invoice.ID, []string{free.ID, taken.ID})
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "research", items[0].Description)
	assert.Equal(t, 300.0, items[0].Amount)

	var reloaded models.TimeEntry
	db.First(&reloaded, "id = ?", free.ID)
	assert.NotNil(t, reloaded.InvoiceID)
	assert.Equal(t, invoice.ID, *reloaded.InvoiceID)

	reloaded = models.TimeEntry{}
	db.First(&reloaded, "id = ?", taken.ID)
	assert.Equal(t, otherInvoiceID, *reloaded.InvoiceID)
}
