package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

type NotificationService struct {
	store *repository.Store
	log   *zap.Logger
}

func NewNotificationService(store *repository.Store, log *zap.Logger) *NotificationService {
	return &NotificationService{store: store, log: orNop(log)}
}

// List — уведомления получателя, новые сверху.
func (s *NotificationService) List(
	ctx context.Context,
	recipientType model.RecipientType,
	recipientID uuid.UUID,
	unreadOnly bool,
) ([]model.Notification, error) {
	items, err := s.store.Notifications.ListByRecipient(ctx, recipientType, recipientID, unreadOnly)
	if err != nil {
		return nil, storageError("list notifications", err)
	}
	return items, nil
}

// MarkRead помечает уведомление прочитанным. Повторный вызов не ошибка.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	ok, err := s.store.Notifications.MarkRead(ctx, id)
	if err != nil {
		return nil, storageError("mark notification read", err)
	}
	if !ok {
		return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	n, err := s.store.Notifications.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("get notification", err)
	}
	return n, nil
}

// Get возвращает уведомление по ID.
func (s *NotificationService) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	n, err := s.store.Notifications.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
		}
		return nil, storageError("get notification", err)
	}
	return n, nil
}
