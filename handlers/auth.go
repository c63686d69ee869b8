package handlers

import (
	"net/http"
	"time"

	"lexdesk_app_go/db"
	"lexdesk_app_go/middleware"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"github.com/labstack/echo/v4"
)

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler authenticates a user and installs a session cookie.
// Invalid credentials always produce the same response; no detail leaks.
func LoginHandler(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Email and password are required",
		})
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		services.LogSecurityEvent("LOGIN_FAILED", "", "Unknown email: "+req.Email)
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Invalid email or password",
		})
	}

	if !user.IsActive || !services.CheckPassword(req.Password, user.Password) {
		services.LogSecurityEvent("LOGIN_FAILED", user.ID, "Bad password or inactive account")
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Invalid email or password",
		})
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create session",
		})
	}

	now := time.Now()
	db.DB.Model(&user).Update("last_login_at", now)

	middleware.SetSessionCookie(c, session.Token, int(services.DefaultSessionDuration.Seconds()))

	user.Password = ""
	return c.JSON(http.StatusOK, user)
}

// LogoutHandler destroys the session. A failing destroy is tolerated; the
// cookie is cleared either way.
func LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			services.LogSecurityEvent("LOGOUT_CLEANUP_FAILED", "", err.Error())
		}
	}

	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// currentUserView is the /api/me response: the user's fields plus when the
// session backing the request expires
type currentUserView struct {
	*models.User
	SessionExpiresAt *time.Time `json:"session_expires_at,omitempty"`
}

// GetCurrentUserHandler returns the authenticated user and session expiry
func GetCurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	user.Password = ""

	view := currentUserView{User: user}
	if session := middleware.GetCurrentSession(c); session != nil {
		view.SessionExpiresAt = &session.ExpiresAt
	}
	return c.JSON(http.StatusOK, view)
}
