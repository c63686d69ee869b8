package services

import (
	"time"

	"lexdesk_app_go/models"

	"gorm.io/gorm"
)

// DashboardStats is the aggregate payload behind GET /api/dashboard/stats
type DashboardStats struct {
	ActiveClients       int64   `json:"active_clients"`
	OpenMatters         int64   `json:"open_matters"`
	IntakeMatters       int64   `json:"intake_matters"`
	DeadlinesThisWeek   int64   `json:"deadlines_this_week"`
	OverdueDeadlines    int64   `json:"overdue_deadlines"`
	HearingsThisWeek    int64   `json:"hearings_this_week"`
	DraftInvoices       int64   `json:"draft_invoices"`
	OutstandingBalance  float64 `json:"outstanding_balance"`
	UnbilledHours       float64 `json:"unbilled_hours"`
	UnreadNotifications int64   `json:"unread_notifications"`
}

// GetDashboardStats computes dashboard aggregates in one pass of queries.
// Each aggregate is independent; a failure on any query aborts the whole call.
func GetDashboardStats(db *gorm.DB, userID string) (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()
	weekAhead := now.Add(7 * 24 * time.Hour)

	if err := db.Model(&models.Client{}).Where("is_active = ?", true).Count(&stats.ActiveClients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Matter{}).Where("status = ?", models.MatterStatusOpen).Count(&stats.OpenMatters).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Matter{}).Where("status = ?", models.MatterStatusIntake).Count(&stats.IntakeMatters).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Deadline{}).
		Where("status = ? AND due_at >= ? AND due_at <= ?", models.DeadlineStatusOpen, now, weekAhead).
		Count(&stats.DeadlinesThisWeek).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Deadline{}).
		Where("status = ?", models.DeadlineStatusPastDue).
		Count(&stats.OverdueDeadlines).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Hearing{}).
		Where("start_time >= ? AND start_time <= ?", now, weekAhead).
		Count(&stats.HearingsThisWeek).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Invoice{}).
		Where("status = ?", models.InvoiceStatusDraft).
		Count(&stats.DraftInvoices).Error; err != nil {
		return nil, err
	}

	_, outstanding, err := ClientBalances(db)
	if err != nil {
		return nil, err
	}
	stats.OutstandingBalance = outstanding

	unbilled, err := UnbilledHours(db)
	if err != nil {
		return nil, err
	}
	stats.UnbilledHours = unbilled

	count, err := NewNotificationService(db).GetNotificationCount(userID)
	if err != nil {
		return nil, err
	}
	stats.UnreadNotifications = count

	return stats, nil
}
