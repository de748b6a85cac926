package repository

import (
	"context"
	"fmt"

	"tiffin-api/models"

	"gorm.io/gorm"
)

// NotificationRepository stores user and broadcast notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListVisible returns notifications addressed to userID plus broadcasts of
	// the given types, newest first.
	ListVisible(ctx context.Context, userID uint, broadcastTypes []models.NotificationType) ([]models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListVisible(ctx context.Context, userID uint, broadcastTypes []models.NotificationType) ([]models.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if len(broadcastTypes) > 0 {
		q = q.Or("user_id = 0 AND type IN ?", broadcastTypes)
	}
	notifications := []models.Notification{}
	if err := q.Order("id desc").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
