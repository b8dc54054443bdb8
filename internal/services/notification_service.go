package services

import (
	"context"

	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/pkg/logger"
)

// NotificationService manages dashboard notifications
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) FindByID(ctx context.Context, id uint) (*models.Notification, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *NotificationService) List(ctx context.Context, query *repository.ListQuery) ([]models.Notification, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uint) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	notification.MarkAsRead()
	return s.repo.Update(ctx, notification)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	return s.repo.MarkAllAsRead(ctx)
}

func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// Notify records a dashboard notification; failures are logged, never fatal
func (s *NotificationService) Notify(ctx context.Context, title, message, notifType string) {
	notification := &models.Notification{
		Title:            title,
		Message:          message,
		NotificationType: &notifType,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		logger.Error("Falha ao criar notificação", "error", err)
	}
}
