package repository

import (
	"context"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client (siempre acotado a un usuario).
type ClientRepository interface {
	// SearchByName busca clientes cuyo nombre contiene fragment, sin distinguir mayúsculas.
	// La coincidencia exacta la resuelve el llamador.
	SearchByName(ctx context.Context, userID, fragment string) ([]*entity.Client, error)
	GetByID(ctx context.Context, userID, id string) (*entity.Client, error)
	Create(ctx context.Context, client *entity.Client) error
	// UpdateContact actualiza email, teléfono, dirección, empresa y updated_at.
	UpdateContact(ctx context.Context, client *entity.Client) error
	List(ctx context.Context, userID string, limit, offset int) ([]*entity.Client, error)
}
