package handlers

import (
	"net/http"

	"lexdesk_app_go/db"
	"lexdesk_app_go/middleware"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetDashboardStatsHandler returns the aggregate counters for the dashboard
func GetDashboardStatsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	stats, err := services.GetDashboardStats(db.DB, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to compute dashboard stats",
		})
	}

	return c.JSON(http.StatusOK, stats)
}
