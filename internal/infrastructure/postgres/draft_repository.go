package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

var _ repository.DraftRepository = (*DraftRepo)(nil)

// DraftRepo almacén clave/valor de borradores (tabla drafts, PK user_id+key).
type DraftRepo struct {
	q Querier
}

// NewDraftRepository construye el adaptador.
func NewDraftRepository(q Querier) *DraftRepo {
	return &DraftRepo{q: q}
}

// Get devuelve el borrador o nil.
func (r *DraftRepo) Get(ctx context.Context, userID, key string) (*entity.Draft, error) {
	var d entity.Draft
	err := r.q.QueryRow(ctx,
		`SELECT user_id, key, payload, updated_at FROM drafts WHERE user_id = $1 AND key = $2`,
		userID, key,
	).Scan(&d.UserID, &d.Key, &d.Payload, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return &d, nil
}

// Upsert último en escribir gana.
func (r *DraftRepo) Upsert(ctx context.Context, d *entity.Draft) error {
	const query = `
		INSERT INTO drafts (user_id, key, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, d.UserID, d.Key, d.Payload, d.UpdatedAt); err != nil {
		return fmt.Errorf("upsert draft: %w", err)
	}
	return nil
}

// Delete no falla si la clave no existe.
func (r *DraftRepo) Delete(ctx context.Context, userID, key string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM drafts WHERE user_id = $1 AND key = $2`, userID, key); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
