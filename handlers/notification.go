package handlers

import (
	"net/http"
	"strconv"

	"lexdesk_app_go/db"
	"lexdesk_app_go/middleware"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetNotificationsHandler lists the current user's notifications, broadcast
// ones included
func GetNotificationsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	svc := services.NewNotificationService(db.DB)
	notifications, err := svc.GetNotifications(user.ID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch notifications",
		})
	}

	return c.JSON(http.StatusOK, notifications)
}

// GetNotificationCountHandler returns the unread notification count
func GetNotificationCountHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	svc := services.NewNotificationService(db.DB)
	count, err := svc.GetNotificationCount(user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to count notifications",
		})
	}

	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}

// MarkNotificationReadHandler marks one notification read
func MarkNotificationReadHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	svc := services.NewNotificationService(db.DB)
	if err := svc.MarkAsRead(c.Param("id"), user.ID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Notification not found",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsReadHandler marks every unread notification read
func MarkAllNotificationsReadHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	svc := services.NewNotificationService(db.DB)
	if err := svc.MarkAllAsRead(user.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to mark notifications read",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteNotificationHandler removes a notification for the current user
func DeleteNotificationHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	svc := services.NewNotificationService(db.DB)
	if err := svc.DeleteNotification(c.Param("id"), user.ID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Notification not found",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
