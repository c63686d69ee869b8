package handlers

import (
	"net/http"

	"lexdesk_app_go/db"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
)

// ClientPayload is the create/update body for a client. Phones and address
// arrive as typed structures and are encoded into JSON columns once here,
// never ad hoc at call sites.
type ClientPayload struct {
	FirstName              string           `json:"first_name"`
	LastName               string           `json:"last_name"`
	Email                  string           `json:"email"`
	Phones                 []models.Phone   `json:"phones"`
	Address                *models.Address  `json:"address"`
	PreferredContactMethod string           `json:"preferred_contact_method"`
	PortalEnabled          *bool            `json:"portal_enabled"`
	IsActive               *bool            `json:"is_active"`
	Notes                  string           `json:"notes"`
}

// GetClientsHandler lists clients, filtered in memory by query parameters:
// contact_method, portal_enabled, created_from, created_to, has_email, has_phone
func GetClientsHandler(c echo.Context) error {
	var clients []models.Client
	if err := db.DB.Order("last_name ASC, first_name ASC").Find(&clients).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch clients",
		})
	}

	filter, err := parseClientFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, services.FilterClients(clients, filter))
}

func parseClientFilter(c echo.Context) (*services.ClientFilter, error) {
	filter := &services.ClientFilter{
		ContactMethod: c.QueryParam("contact_method"),
	}

	if v := c.QueryParam("portal_enabled"); v != "" {
		enabled := v == "true"
		filter.PortalEnabled = &enabled
	}
	if v := c.QueryParam("has_email"); v != "" {
		has := v == "true"
		filter.HasEmail = &has
	}
	if v := c.QueryParam("has_phone"); v != "" {
		has := v == "true"
		filter.HasPhone = &has
	}
	if v := c.QueryParam("created_from"); v != "" {
		from, err := services.ParseDate(v)
		if err != nil {
			return nil, err
		}
		filter.CreatedFrom = &from
	}
	if v := c.QueryParam("created_to"); v != "" {
		to, err := services.ParseDate(v)
		if err != nil {
			return nil, err
		}
		filter.CreatedTo = &to
	}

	return filter, nil
}

// GetClientHandler returns a single client by ID
func GetClientHandler(c echo.Context) error {
	id := c.Param("id")
	var client models.Client
	if err := db.DB.First(&client, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Client not found",
		})
	}
	return c.JSON(http.StatusOK, client)
}

// CreateClientHandler creates a client
func CreateClientHandler(c echo.Context) error {
	payload := new(ClientPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if payload.FirstName == "" && payload.LastName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Client name is required",
		})
	}

	client := models.Client{
		FirstName:              payload.FirstName,
		LastName:               payload.LastName,
		Email:                  payload.Email,
		PreferredContactMethod: models.ContactMethodEmail,
		IsActive:               true,
		Notes:                  payload.Notes,
	}

	if payload.PreferredContactMethod != "" {
		if !models.IsValidContactMethod(payload.PreferredContactMethod) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid preferred contact method",
			})
		}
		client.PreferredContactMethod = payload.PreferredContactMethod
	}
	if payload.PortalEnabled != nil {
		client.PortalEnabled = *payload.PortalEnabled
	}
	if payload.IsActive != nil {
		client.IsActive = *payload.IsActive
	}
	if err := client.SetPhoneList(payload.Phones); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid phones",
		})
	}
	if payload.Address != nil {
		if err := client.SetMailingAddress(*payload.Address); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid address",
			})
		}
	}

	if err := db.DB.Create(&client).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create client",
		})
	}

	return c.JSON(http.StatusCreated, client)
}

// UpdateClientHandler merges a partial payload into an existing client
func UpdateClientHandler(c echo.Context) error {
	id := c.Param("id")
	var client models.Client
	if err := db.DB.First(&client, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Client not found",
		})
	}

	payload := new(ClientPayload)
	if err := c.Bind(payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	wasPortalEnabled := client.PortalEnabled

	if payload.FirstName != "" {
		client.FirstName = payload.FirstName
	}
	if payload.LastName != "" {
		client.LastName = payload.LastName
	}
	if payload.Email != "" {
		client.Email = payload.Email
	}
	if payload.Notes != "" {
		client.Notes = payload.Notes
	}
	if payload.PreferredContactMethod != "" {
		if !models.IsValidContactMethod(payload.PreferredContactMethod) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid preferred contact method",
			})
		}
		client.PreferredContactMethod = payload.PreferredContactMethod
	}
	if payload.PortalEnabled != nil {
		client.PortalEnabled = *payload.PortalEnabled
	}
	if payload.IsActive != nil {
		client.IsActive = *payload.IsActive
	}
	if payload.Phones != nil {
		if err := client.SetPhoneList(payload.Phones); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid phones",
			})
		}
	}
	if payload.Address != nil {
		if err := client.SetMailingAddress(*payload.Address); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid address",
			})
		}
	}

	if err := db.DB.Save(&client).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to update client",
		})
	}

	// Invite the client when portal access was just switched on
	if !wasPortalEnabled && client.PortalEnabled && client.Email != "" {
		cfg := getConfig(c)
		if cfg != nil {
			email := services.BuildPortalInviteEmail(client.Email, services.PortalInviteEmailData{
				ClientName: client.FullName(),
				PortalURL:  cfg.AppURL + "/portal",
				FirmName:   cfg.EmailFromName,
			})
			services.SendEmailAsync(cfg, email)
		}
	}

	return c.JSON(http.StatusOK, client)
}

// DeleteClientHandler soft-deletes a client
func DeleteClientHandler(c echo.Context) error {
	id := c.Param("id")
	var client models.Client
	if err := db.DB.First(&client, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Client not found",
		})
	}

	if err := db.DB.Delete(&client).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete client",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// GetClientBalancesHandler returns clients with outstanding balances
func GetClientBalancesHandler(c echo.Context) error {
	balances, total, err := services.ClientBalances(db.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to compute balances",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"clients": balances,
		"total":   total,
	})
}

// ExportClientBalancesHandler streams the outstanding-balances report as an
// XLSX workbook
func ExportClientBalancesHandler(c echo.Context) error {
	buf, err := services.ExportClientBalances(db.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to export balances",
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+services.ExportFilename("client_balances"))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportClientsHandler streams the client list as an XLSX workbook
func ExportClientsHandler(c echo.Context) error {
	filter, err := parseClientFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	buf, err := services.ExportClients(db.DB, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to export clients",
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+services.ExportFilename("clients"))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
