package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo feed de notificaciones.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create inserta una notificación no leída.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO notifications (id, user_id, type, title, message, invoice_number, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Message, n.InvoiceNumber, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser más recientes primero.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, user_id, type, title, message, invoice_number, read, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.InvoiceNumber, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkRead marca una notificación del usuario como leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllRead devuelve cuántas pasaron a leídas.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
