package repository

import (
	"context"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// DraftRepository almacén persistente clave/valor de borradores por usuario.
type DraftRepository interface {
	// Get devuelve nil si no hay borrador para (userID, key).
	Get(ctx context.Context, userID, key string) (*entity.Draft, error)
	Upsert(ctx context.Context, draft *entity.Draft) error
	Delete(ctx context.Context, userID, key string) error
}
