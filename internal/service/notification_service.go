package service

import (
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
)

type NotificationService struct {
	Repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{Repo: repo}
}

type NotificationList struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int64                `json:"unreadCount"`
}

func (s *NotificationService) List(recipient uint, limit int) (*NotificationList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, unread, err := s.Repo.ListByRecipient(recipient, limit)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Notifications: items, UnreadCount: unread}, nil
}

func (s *NotificationService) MarkRead(recipient, id uint) error {
	return s.Repo.MarkRead(id, recipient)
}

func (s *NotificationService) MarkAllRead(recipient uint) error {
	return s.Repo.MarkAllRead(recipient)
}
