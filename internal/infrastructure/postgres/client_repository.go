package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, user_id, name, COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(address, ''), COALESCE(company_name, ''), created_at, updated_at`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CompanyName, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// SearchByName clientes del usuario cuyo nombre contiene fragment (ILIKE, comodines escapados).
func (r *ClientRepo) SearchByName(ctx context.Context, userID, fragment string) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + `
		FROM clients
		WHERE user_id = $1 AND name ILIKE $2 ESCAPE '\'
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, userID, containsPattern(fragment))
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID obtiene un cliente del usuario por ID.
func (r *ClientRepo) GetByID(ctx context.Context, userID, id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1 AND id = $2`
	c, err := scanClient(r.q.QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// Create persiste un nuevo cliente; los campos de contacto vacíos se guardan como NULL.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	const query = `
		INSERT INTO clients (id, user_id, name, email, phone, address, company_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.UserID, c.Name,
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Address), nullIfEmpty(c.CompanyName),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// UpdateContact reescribe los cuatro campos de contacto y updated_at.
func (r *ClientRepo) UpdateContact(ctx context.Context, c *entity.Client) error {
	const query = `
		UPDATE clients
		SET email = $3, phone = $4, address = $5, company_name = $6, updated_at = $7
		WHERE user_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		c.UserID, c.ID,
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Address), nullIfEmpty(c.CompanyName),
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List clientes del usuario ordenados por nombre.
func (r *ClientRepo) List(ctx context.Context, userID string, limit, offset int) ([]*entity.Client, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + clientColumns + `
		FROM clients WHERE user_id = $1
		ORDER BY lower(name) LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
