package notifications_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-studio-api/internal/application/notifications"
	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

type memRepo struct {
	items     []*entity.Notification
	createErr error
	lastLimit int
}

func (m *memRepo) Create(_ context.Context, n *entity.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.items = append(m.items, n)
	return nil
}

func (m *memRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	m.lastLimit = limit
	var out []*entity.Notification
	for _, n := range m.items {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) MarkRead(_ context.Context, userID, id string) (bool, error) {
	for _, n := range m.items {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var c int64
	for _, n := range m.items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			c++
		}
	}
	return c, nil
}

func TestEmit_AsignaIDYFecha(t *testing.T) {
	repo := &memRepo{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := notifications.NewService(repo, zerolog.Nop()).WithClock(func() time.Time { return now })

	svc.Emit(context.Background(), &entity.Notification{UserID: "u1", Type: entity.NotificationInvoiceSent})
	require.Len(t, repo.items, 1)
	assert.NotEmpty(t, repo.items[0].ID)
	assert.Equal(t, now, repo.items[0].CreatedAt)

	svc.Emit(context.Background(), &entity.Notification{Type: entity.NotificationInvoiceSent})
	svc.Emit(context.Background(), nil)
	assert.Len(t, repo.items, 1, "sin usuario no se registra")
}

func TestEmit_FalloNoPropaga(t *testing.T) {
	repo := &memRepo{createErr: errors.New("db down")}
	svc := notifications.NewService(repo, zerolog.Nop())
	assert.NotPanics(t, func() {
		svc.Emit(context.Background(), &entity.Notification{UserID: "u1"})
	})
}

func TestListYMarcar(t *testing.T) {
	repo := &memRepo{}
	svc := notifications.NewService(repo, zerolog.Nop())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		svc.Emit(ctx, &entity.Notification{UserID: "u1", Type: entity.NotificationInvoiceDownloaded})
	}
	svc.Emit(ctx, &entity.Notification{UserID: "u2", Type: entity.NotificationInvoiceDownloaded})

	list, err := svc.List(ctx, "u1", false, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, 50, repo.lastLimit)

	_, err = svc.List(ctx, "u1", false, 10_000)
	require.NoError(t, err)
	assert.Equal(t, 200, repo.lastLimit)

	require.NoError(t, svc.MarkRead(ctx, "u1", list[0].ID))
	assert.ErrorIs(t, svc.MarkRead(ctx, "u2", list[1].ID), domain.ErrNotFound)

	unread, err := svc.List(ctx, "u1", true, 10)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	n, err := svc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
