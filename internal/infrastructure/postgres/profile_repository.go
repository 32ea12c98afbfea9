package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo perfiles de usuario; los métodos de pago viven en la columna JSONB payment_methods.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// Get devuelve el perfil o nil si aún no existe.
func (r *ProfileRepo) Get(ctx context.Context, userID string) (*entity.Profile, error) {
	const query = `
		SELECT user_id, full_name, company_name, company_address, company_phone, company_email,
		       tax_id, website, avatar_url, default_currency, payment_methods, created_at, updated_at
		FROM profiles WHERE user_id = $1`
	var (
		p       entity.Profile
		methods []byte
	)
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.FullName, &p.CompanyName, &p.CompanyAddress, &p.CompanyPhone, &p.CompanyEmail,
		&p.TaxID, &p.Website, &p.AvatarURL, &p.DefaultCurrency, &methods, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(methods) > 0 {
		if err := json.Unmarshal(methods, &p.PaymentMethods); err != nil {
			return nil, fmt.Errorf("decode payment_methods: %w", err)
		}
	}
	return &p, nil
}

// Upsert crea o reemplaza el perfil completo.
func (r *ProfileRepo) Upsert(ctx context.Context, p *entity.Profile) error {
	methods := p.PaymentMethods
	if methods == nil {
		methods = []entity.PaymentMethod{}
	}
	raw, err := json.Marshal(methods)
	if err != nil {
		return fmt.Errorf("encode payment_methods: %w", err)
	}
	const query = `
		INSERT INTO profiles (user_id, full_name, company_name, company_address, company_phone, company_email,
		                      tax_id, website, avatar_url, default_currency, payment_methods, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
		    full_name = EXCLUDED.full_name,
		    company_name = EXCLUDED.company_name,
		    company_address = EXCLUDED.company_address,
		    company_phone = EXCLUDED.company_phone,
		    company_email = EXCLUDED.company_email,
		    tax_id = EXCLUDED.tax_id,
		    website = EXCLUDED.website,
		    avatar_url = EXCLUDED.avatar_url,
		    default_currency = EXCLUDED.default_currency,
		    payment_methods = EXCLUDED.payment_methods,
		    updated_at = EXCLUDED.updated_at`
	_, err = r.q.Exec(ctx, query,
		p.UserID, p.FullName, p.CompanyName, p.CompanyAddress, p.CompanyPhone, p.CompanyEmail,
		p.TaxID, p.Website, p.AvatarURL, p.DefaultCurrency, raw, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
