package services

import (
	"time"

	"lexdesk_app_go/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// GetNotifications returns notifications visible to a user, newest first.
// Broadcast notifications (null user_id) are visible to everyone.
func (s *NotificationService) GetNotifications(userID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Where("user_id IS NULL OR user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) GetUnreadNotifications(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("(user_id IS NULL OR user_id = ?) AND read_at IS NULL", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkAsRead(notificationID, userID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND (user_id IS NULL OR user_id = ?)", notificationID, userID).
		Update("read_at", now).Error
}

func (s *NotificationService) MarkAllAsRead(userID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("(user_id IS NULL OR user_id = ?) AND read_at IS NULL", userID).
		Update("read_at", now).Error
}

func (s *NotificationService) GetNotificationCount(userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("(user_id IS NULL OR user_id = ?) AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) CreateNotification(notification *models.Notification) error {
	return s.DB.Create(notification).Error
}

func (s *NotificationService) DeleteNotification(notificationID, userID string) error {
	return s.DB.Where("id = ? AND (user_id IS NULL OR user_id = ?)", notificationID, userID).
		Delete(&models.Notification{}).Error
}
