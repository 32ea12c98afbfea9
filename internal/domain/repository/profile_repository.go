package repository

import (
	"context"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile (incluye los métodos de pago).
type ProfileRepository interface {
	// Get devuelve nil si el usuario aún no tiene perfil.
	Get(ctx context.Context, userID string) (*entity.Profile, error)
	Upsert(ctx context.Context, profile *entity.Profile) error
}
