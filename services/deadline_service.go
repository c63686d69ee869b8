package services

import (
	"log"
	"time"

	"lexdesk_app_go/models"

	"gorm.io/gorm"
)

// Deadline grouping buckets. Every deadline lands in exactly one.
const (
	BucketOverdue      = "overdue"
	BucketDueThisWeek  = "due-this-week"
	BucketDueThisMonth = "due-this-month"
	BucketFuture       = "future"
	BucketCompleted    = "completed"
)

// DaysUntilDue computes the calendar-day difference between now and the due
// date, both truncated to midnight in server-local time. Negative for past-due.
func DaysUntilDue(dueAt, now time.Time) int {
	y1, m1, d1 := now.Local().Date()
	y2, m2, d2 := dueAt.Local().Date()
	nowDate := time.Date(y1, m1, d1, 0, 0, 0, 0, time.Local)
	dueDate := time.Date(y2, m2, d2, 0, 0, 0, 0, time.Local)
	return int(dueDate.Sub(nowDate).Hours() / 24)
}

// BucketFor assigns a deadline to its grouping bucket. Completed deadlines
// always group under completed regardless of the due date.
func BucketFor(d *models.Deadline, now time.Time) string {
	if d.Status == models.DeadlineStatusCompleted {
		return BucketCompleted
	}
	days := DaysUntilDue(d.DueAt, now)
	switch {
	case days < 0:
		return BucketOverdue
	case days <= 7:
		return BucketDueThisWeek
	case days <= 30:
		return BucketDueThisMonth
	default:
		return BucketFuture
	}
}

// GroupedDeadlines partitions deadlines into the five buckets
type GroupedDeadlines struct {
	Overdue      []models.Deadline `json:"overdue"`
	DueThisWeek  []models.Deadline `json:"due_this_week"`
	DueThisMonth []models.Deadline `json:"due_this_month"`
	Future       []models.Deadline `json:"future"`
	Completed    []models.Deadline `json:"completed"`
}

// GroupDeadlines places each deadline in exactly one bucket
func GroupDeadlines(deadlines []models.Deadline, now time.Time) GroupedDeadlines {
	grouped := GroupedDeadlines{
		Overdue:      []models.Deadline{},
		DueThisWeek:  []models.Deadline{},
		DueThisMonth: []models.Deadline{},
		Future:       []models.Deadline{},
		Completed:    []models.Deadline{},
	}
	for _, d := range deadlines {
		switch BucketFor(&d, now) {
		case BucketCompleted:
			grouped.Completed = append(grouped.Completed, d)
		case BucketOverdue:
			grouped.Overdue = append(grouped.Overdue, d)
		case BucketDueThisWeek:
			grouped.DueThisWeek = append(grouped.DueThisWeek, d)
		case BucketDueThisMonth:
			grouped.DueThisMonth = append(grouped.DueThisMonth, d)
		default:
			grouped.Future = append(grouped.Future, d)
		}
	}
	return grouped
}

// MarkPastDueDeadlines flips open deadlines whose due date has passed to
// PAST_DUE. Run by the hourly background sweep.
func MarkPastDueDeadlines(db *gorm.DB) (int64, error) {
	result := db.Model(&models.Deadline{}).
		Where("status = ? AND due_at < ?", models.DeadlineStatusOpen, time.Now()).
		Update("status", models.DeadlineStatusPastDue)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Marked %d deadlines past due", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

// CompleteDeadline marks a deadline completed with a timestamp
func CompleteDeadline(db *gorm.DB, deadline *models.Deadline) error {
	now := time.Now()
	deadline.Status = models.DeadlineStatusCompleted
	deadline.CompletedAt = &now
	return db.Save(deadline).Error
}
