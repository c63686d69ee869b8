package handlers

import (
	"lexdesk_app_go/config"

	"github.com/labstack/echo/v4"
)

// getConfig retrieves the application config installed on the context by the
// server's config middleware
func getConfig(c echo.Context) *config.Config {
	cfg, ok := c.Get("config").(*config.Config)
	if !ok {
		return nil
	}
	return cfg
}
