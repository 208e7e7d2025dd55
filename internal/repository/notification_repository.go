package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

// ListByRecipient returns the newest notifications for the user,
// capped at limit, plus the unread count.
func (r *NotificationRepository) ListByRecipient(userID uint, limit int) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	if err := r.DB.Where("recipient = ?", userID).
		Order("created_at desc").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	var unread int64
	err := r.DB.Model(&model.Notification{}).
		Where("recipient = ? AND `read` = ?", userID, false).Count(&unread).Error
	return notifications, unread, err
}

// MarkRead marks one of the user's notifications as read. Ownership is
// part of the predicate so users cannot touch others' rows.
func (r *NotificationRepository) MarkRead(id uint, userID uint) error {
	return r.DB.Model(&model.Notification{}).
		Where("id = ? AND recipient = ?", id, userID).
		Update("read", true).Error
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	return r.DB.Model(&model.Notification{}).
		Where("recipient = ? AND `read` = ?", userID, false).
		Update("read", true).Error
}
