package repository

import (
	"context"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia del feed de notificaciones.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, userID, id string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}
