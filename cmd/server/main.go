package main

import (
	"log"
	"time"

	"lexdesk_app_go/config"
	"lexdesk_app_go/db"
	"lexdesk_app_go/handlers"
	"lexdesk_app_go/middleware"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"
	"lexdesk_app_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.DatabaseURL, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Client{},
		&models.Matter{},
		&models.Deadline{},
		&models.DeadlineNote{},
		&models.Hearing{},
		&models.Communication{},
		&models.TimeEntry{},
		&models.Invoice{},
		&models.DocumentTemplate{},
		&models.Document{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize file storage (R2 with local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.POST("/api/auth/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())
	e.POST("/api/auth/logout", handlers.LogoutHandler)
	e.POST("/api/intake", handlers.IntakeHandler, middleware.IntakeRateLimiter.Middleware())

	// Client portal routes (public, rate-limited)
	portal := e.Group("/api/client-portal")
	portal.Use(middleware.PortalRateLimiter.Middleware())
	{
		portal.GET("/lookup", handlers.PortalLookupHandler)
		portal.GET("/:clientId", handlers.PortalClientHandler)
	}

	// Protected routes (authentication required)
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", handlers.GetCurrentUserHandler)

		// Clients
		api.GET("/clients", handlers.GetClientsHandler)
		api.POST("/clients", handlers.CreateClientHandler)
		api.GET("/clients/balances", handlers.GetClientBalancesHandler)
		api.GET("/clients/balances/export", handlers.ExportClientBalancesHandler)
		api.GET("/clients/export", handlers.ExportClientsHandler)
		api.GET("/clients/:id", handlers.GetClientHandler)
		api.PUT("/clients/:id", handlers.UpdateClientHandler)
		api.DELETE("/clients/:id", handlers.DeleteClientHandler)

		// Matters
		api.GET("/matters", handlers.GetMattersHandler)
		api.POST("/matters", handlers.CreateMatterHandler)
		api.GET("/matters/:id", handlers.GetMatterHandler)
		api.PUT("/matters/:id", handlers.UpdateMatterHandler)
		api.DELETE("/matters/:id", handlers.DeleteMatterHandler)

		// Matter documents
		api.GET("/matters/:id/documents", handlers.GetMatterDocumentsHandler)
		api.POST("/matters/:id/documents", handlers.UploadDocumentHandler)
		api.POST("/matters/:id/documents/generate", handlers.GenerateDocumentHandler)
		api.GET("/documents/:id/download", handlers.DownloadDocumentHandler)
		api.DELETE("/documents/:id", handlers.DeleteDocumentHandler)

		// Deadlines
		api.GET("/deadlines", handlers.GetDeadlinesHandler)
		api.POST("/deadlines", handlers.CreateDeadlineHandler)
		api.GET("/deadlines/grouped", handlers.GetGroupedDeadlinesHandler)
		api.GET("/deadlines/:id", handlers.GetDeadlineHandler)
		api.PUT("/deadlines/:id", handlers.UpdateDeadlineHandler)
		api.DELETE("/deadlines/:id", handlers.DeleteDeadlineHandler)
		api.POST("/deadlines/:id/complete", handlers.CompleteDeadlineHandler)
		api.GET("/deadlines/:id/notes", handlers.GetDeadlineNotesHandler)
		api.POST("/deadlines/:id/notes", handlers.AddDeadlineNoteHandler)

		// Hearings
		api.GET("/hearings", handlers.GetHearingsHandler)
		api.POST("/hearings", handlers.CreateHearingHandler)
		api.GET("/hearings/:id", handlers.GetHearingHandler)
		api.PUT("/hearings/:id", handlers.UpdateHearingHandler)
		api.DELETE("/hearings/:id", handlers.DeleteHearingHandler)

		// Communications
		api.GET("/communications", handlers.GetCommunicationsHandler)
		api.POST("/communications", handlers.CreateCommunicationHandler)
		api.DELETE("/communications/:id", handlers.DeleteCommunicationHandler)

		// Time entries
		api.GET("/time-entries", handlers.GetTimeEntriesHandler)
		api.POST("/time-entries", handlers.CreateTimeEntryHandler)
		api.PUT("/time-entries/:id", handlers.UpdateTimeEntryHandler)
		api.DELETE("/time-entries/:id", handlers.DeleteTimeEntryHandler)

		// Invoices (admin and attorney only)
		invoiceRoutes := api.Group("/invoices")
		invoiceRoutes.Use(middleware.RequireRole(models.RoleAdmin, models.RoleAttorney))
		{
			invoiceRoutes.GET("", handlers.GetInvoicesHandler)
			invoiceRoutes.POST("", handlers.CreateInvoiceHandler)
			invoiceRoutes.GET("/:id", handlers.GetInvoiceHandler)
			invoiceRoutes.PUT("/:id", handlers.UpdateInvoiceHandler)
			invoiceRoutes.PUT("/:id/status", handlers.UpdateInvoiceStatusHandler)
			invoiceRoutes.DELETE("/:id", handlers.DeleteInvoiceHandler)
		}

		// Document templates
		api.GET("/templates", handlers.GetTemplatesHandler)
		api.POST("/templates", handlers.CreateTemplateHandler)
		api.GET("/templates/:id", handlers.GetTemplateHandler)
		api.PUT("/templates/:id", handlers.UpdateTemplateHandler)
		api.DELETE("/templates/:id", handlers.DeleteTemplateHandler, middleware.RequireRole(models.RoleAdmin))

		// Dashboard
		api.GET("/dashboard/stats", handlers.GetDashboardStatsHandler)

		// Notifications
		api.GET("/notifications", handlers.GetNotificationsHandler)
		api.GET("/notifications/count", handlers.GetNotificationCountHandler)
		api.PUT("/notifications/mark-all-read", handlers.MarkAllNotificationsReadHandler)
		api.PUT("/notifications/:id/read", handlers.MarkNotificationReadHandler)
		api.DELETE("/notifications/:id", handlers.DeleteNotificationHandler)
	}

	// Start background maintenance sweeps (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			jobs.RunHourlySweeps(db.DB, cfg)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
