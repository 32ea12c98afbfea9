// Package profile datos de marca del usuario y sus métodos de cobro.
package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// DefaultCurrency moneda de un perfil recién creado.
const DefaultCurrency = "USD"

// Service casos de uso del perfil.
type Service struct {
	repo repository.ProfileRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewService construye el servicio.
func NewService(repo repository.ProfileRepository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get devuelve el perfil; si el usuario aún no tiene uno, un perfil vacío en USD (sin persistir).
func (s *Service) Get(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("obtener perfil: %w", err)
	}
	if p == nil {
		return &entity.Profile{UserID: userID, DefaultCurrency: DefaultCurrency, PaymentMethods: []entity.PaymentMethod{}}, nil
	}
	if p.DefaultCurrency == "" {
		p.DefaultCurrency = DefaultCurrency
	}
	return p, nil
}

// Update reemplaza los datos de marca. Los métodos de pago se gestionan aparte y se conservan.
func (s *Service) Update(ctx context.Context, userID string, in entity.Profile) (*entity.Profile, error) {
	cur, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.DefaultCurrency))
	if currency == "" {
		currency = cur.DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, domain.NewValidationError("defaultCurrency", "currency must be a 3-letter ISO code")
	}
	in.UserID = userID
	in.DefaultCurrency = currency
	in.PaymentMethods = cur.PaymentMethods
	in.CreatedAt = cur.CreatedAt
	if in.CreatedAt.IsZero() {
		in.CreatedAt = s.now()
	}
	in.UpdatedAt = s.now()
	if err := s.repo.Upsert(ctx, &in); err != nil {
		return nil, fmt.Errorf("%w: guardar perfil: %w", domain.ErrPersistence, err)
	}
	return &in, nil
}

// AddPaymentMethod valida el método según su tipo y lo agrega con un ID nuevo.
func (s *Service) AddPaymentMethod(ctx context.Context, userID string, m entity.PaymentMethod) (*entity.PaymentMethod, error) {
	m.Label = strings.TrimSpace(m.Label)
	if err := m.Validate(); err != nil {
		return nil, domain.NewValidationError("paymentMethod", err.Error())
	}
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	m.ID = uuid.New().String()
	if m.Label == "" {
		m.Label = string(m.Type)
	}
	p.PaymentMethods = append(p.PaymentMethods, m)
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.log.Debug().Str("user_id", userID).Str("type", string(m.Type)).Msg("método de pago agregado")
	return &m, nil
}

// RemovePaymentMethod quita el método; domain.ErrNotFound si no existe.
// Las facturas que lo referencian simplemente dejan de mostrarlo.
func (s *Service) RemovePaymentMethod(ctx context.Context, userID, id string) error {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	kept := p.PaymentMethods[:0]
	for _, m := range p.PaymentMethods {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(p.PaymentMethods) {
		return domain.ErrNotFound
	}
	p.PaymentMethods = kept
	return s.save(ctx, p)
}

func (s *Service) save(ctx context.Context, p *entity.Profile) error {
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if err := s.repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("%w: guardar perfil: %w", domain.ErrPersistence, err)
	}
	return nil
}
