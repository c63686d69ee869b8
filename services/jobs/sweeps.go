package jobs

import (
	"fmt"
	"log"
	"time"

	"lexdesk_app_go/config"
	"lexdesk_app_go/models"
	"lexdesk_app_go/services"

	"gorm.io/gorm"
)

// RunHourlySweeps performs the periodic maintenance work: expired session
// cleanup, past-due deadline marking, deadline reminders, and overdue
// invoice marking. Each step logs and continues on failure.
func RunHourlySweeps(db *gorm.DB, cfg *config.Config) {
	if err := services.CleanupExpiredSessions(db); err != nil {
		log.Printf("Error cleaning up expired sessions: %v", err)
	}

	if _, err := services.MarkPastDueDeadlines(db); err != nil {
		log.Printf("Error marking past-due deadlines: %v", err)
	}

	SendDeadlineReminders(db, cfg)

	if _, err := services.MarkOverdueInvoices(db); err != nil {
		log.Printf("Error marking overdue invoices: %v", err)
	}
}

// SendDeadlineReminders emails the assigned attorney for open deadlines due
// within the next 48 hours that have not been reminded yet, and raises an
// in-app notification alongside each email.
func SendDeadlineReminders(db *gorm.DB, cfg *config.Config) {
	now := time.Now()
	windowEnd := now.Add(48 * time.Hour)

	var deadlines []models.Deadline
	err := db.Preload("Matter").Preload("Matter.AssignedTo").
		Where("status = ?", models.DeadlineStatusOpen).
		Where("due_at >= ? AND due_at <= ?", now, windowEnd).
		Where("reminder_sent_at IS NULL").
		Find(&deadlines).Error
	if err != nil {
		log.Printf("Error fetching deadlines for reminders: %v", err)
		return
	}

	if len(deadlines) == 0 {
		return
	}
	log.Printf("Found %d deadlines to remind", len(deadlines))

	notifier := services.NewNotificationService(db)

	for _, d := range deadlines {
		link := cfg.AppURL + "/deadlines/" + d.ID

		if d.Matter.AssignedTo != nil && d.Matter.AssignedTo.Email != "" {
			email := services.BuildDeadlineReminderEmail(d.Matter.AssignedTo.Email, services.DeadlineReminderEmailData{
				Title:        d.Title,
				MatterNumber: d.Matter.MatterNumber,
				MatterTitle:  d.Matter.Title,
				DueDate:      d.DueAt.Format("Monday, January 2, 2006"),
				DaysLeft:     services.DaysUntilDue(d.DueAt, now),
				Link:         link,
			})
			if err := services.SendEmail(cfg, email); err != nil {
				log.Printf("Failed to send reminder for deadline %s: %v", d.ID, err)
				continue
			}
		}

		notification := &models.Notification{
			UserID:   d.Matter.AssignedToID,
			MatterID: &d.MatterID,
			Type:     models.NotificationTypeDeadline,
			Title:    "Deadline approaching",
			Message:  fmt.Sprintf("%q on matter %s is due %s", d.Title, d.Matter.MatterNumber, d.DueAt.Format("Jan 2, 2006")),
			LinkURL:  "/deadlines/" + d.ID,
		}
		if err := notifier.CreateNotification(notification); err != nil {
			log.Printf("Failed to create reminder notification for deadline %s: %v", d.ID, err)
		}

		sentAt := time.Now()
		db.Model(&d).Update("reminder_sent_at", sentAt)
	}
}
