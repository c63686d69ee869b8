package handlers

import (
	"net/http"
	"strings"
	"time"

	"lexdesk_app_go/db"
	"lexdesk_app_go/models"

	"github.com/labstack/echo/v4"
)

// Portal responses are deliberately thin views. The portal is public-facing;
// only fields a client should see leave the server.

type portalMatterView struct {
	ID           string  `json:"id"`
	MatterNumber string  `json:"matter_number"`
	Title        string  `json:"title"`
	Status       string  `json:"status"`
	PracticeArea string  `json:"practice_area"`
	OpenedAt     string  `json:"opened_at"`
}

type portalHearingView struct {
	MatterNumber string    `json:"matter_number"`
	Title        string    `json:"title"`
	StartTime    time.Time `json:"start_time"`
	Courtroom    string    `json:"courtroom"`
}

type portalInvoiceView struct {
	InvoiceNumber string     `json:"invoice_number"`
	Status        string     `json:"status"`
	Total         float64    `json:"total"`
	IssuedAt      *time.Time `json:"issued_at,omitempty"`
	DueAt         *time.Time `json:"due_at,omitempty"`
}

type portalDocumentView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type portalClientView struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Matters   []portalMatterView   `json:"matters"`
	Hearings  []portalHearingView  `json:"upcoming_hearings"`
	Invoices  []portalInvoiceView  `json:"invoices"`
	Documents []portalDocumentView `json:"documents"`
}

// PortalLookupHandler resolves an email address to a portal client ID.
// Disabled or unknown clients produce the same not-found response.
func PortalLookupHandler(c echo.Context) error {
	email := strings.TrimSpace(strings.ToLower(c.QueryParam("email")))
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Email is required",
		})
	}

	var client models.Client
	err := db.DB.Where("LOWER(email) = ? AND portal_enabled = ? AND is_active = ?", email, true, true).
		First(&client).Error
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "No portal account found for that email",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"client_id": client.ID,
		"name":      client.FullName(),
	})
}

// PortalClientHandler returns the portal view for a client: their matters,
// upcoming hearings, invoices and generated documents
func PortalClientHandler(c echo.Context) error {
	clientID := c.Param("clientId")

	var client models.Client
	err := db.DB.Where("id = ? AND portal_enabled = ? AND is_active = ?", clientID, true, true).
		First(&client).Error
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Portal account not found",
		})
	}

	var matters []models.Matter
	if err := db.DB.Where("client_id = ?", clientID).Order("opened_at DESC").Find(&matters).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to load portal data",
		})
	}

	view := portalClientView{
		ID:        client.ID,
		Name:      client.FullName(),
		Matters:   []portalMatterView{},
		Hearings:  []portalHearingView{},
		Invoices:  []portalInvoiceView{},
		Documents: []portalDocumentView{},
	}

	matterIDs := make([]string, 0, len(matters))
	matterNumbers := make(map[string]string, len(matters))
	for _, m := range matters {
		matterIDs = append(matterIDs, m.ID)
		matterNumbers[m.ID] = m.MatterNumber

		view.Matters = append(view.Matters, portalMatterView{
			ID:           m.ID,
			MatterNumber: m.MatterNumber,
			Title:        m.Title,
			Status:       m.Status,
			PracticeArea: m.PracticeArea,
			OpenedAt:     m.OpenedAt.Format("2006-01-02"),
		})
	}

	if len(matterIDs) > 0 {
		var hearings []models.Hearing
		err := db.DB.Where("matter_id IN ? AND start_time > ?", matterIDs, time.Now()).
			Order("start_time ASC").
			Find(&hearings).Error
		if err == nil {
			for _, h := range hearings {
				view.Hearings = append(view.Hearings, portalHearingView{
					MatterNumber: matterNumbers[h.MatterID],
					Title:        h.Title,
					StartTime:    h.StartTime,
					Courtroom:    h.Courtroom,
				})
			}
		}

		var invoices []models.Invoice
		err = db.DB.Where("matter_id IN ? AND status <> ?", matterIDs, models.InvoiceStatusDraft).
			Order("created_at DESC").
			Find(&invoices).Error
		if err == nil {
			for _, inv := range invoices {
				view.Invoices = append(view.Invoices, portalInvoiceView{
					InvoiceNumber: inv.InvoiceNumber,
					Status:        inv.Status,
					Total:         inv.Total,
					IssuedAt:      inv.IssuedAt,
					DueAt:         inv.DueAt,
				})
			}
		}

		var documents []models.Document
		err = db.DB.Where("matter_id IN ?", matterIDs).
			Order("created_at DESC").
			Find(&documents).Error
		if err == nil {
			for _, d := range documents {
				view.Documents = append(view.Documents, portalDocumentView{
					ID:        d.ID,
					Name:      d.Name,
					CreatedAt: d.CreatedAt,
				})
			}
		}
	}

	// Portal access itself is a logged client touchpoint
	if len(matterIDs) > 0 {
		comm := models.Communication{
			MatterID:  matterIDs[0],
			Channel:   models.ChannelPortal,
			Direction: models.DirectionInbound,
			Subject:   "Portal visit",
			Body:      "Client viewed the portal",
		}
		db.DB.Create(&comm)
	}

	return c.JSON(http.StatusOK, view)
}
