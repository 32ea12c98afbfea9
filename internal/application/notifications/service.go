// Package notifications feed de avisos por usuario (facturas enviadas, descargadas, vencidas).
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Service registra y consulta notificaciones.
type Service struct {
	repo repository.NotificationRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewService construye el servicio.
func NewService(repo repository.NotificationRepository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Emit persiste la notificación. Un fallo solo se loguea: el aviso nunca hace fallar la operación que lo origina.
func (s *Service) Emit(ctx context.Context, n *entity.Notification) {
	if n == nil || n.UserID == "" {
		return
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warn().Err(err).Str("user_id", n.UserID).Str("type", n.Type).Msg("no se pudo registrar la notificación")
	}
}

// List últimas notificaciones del usuario, más recientes primero.
func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	out, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("listar notificaciones: %w", err)
	}
	return out, nil
}

// MarkRead marca una notificación como leída; domain.ErrNotFound si no es del usuario.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	ok, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("marcar notificación: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todas como leídas y devuelve cuántas cambiaron.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("marcar notificaciones: %w", err)
	}
	return n, nil
}
