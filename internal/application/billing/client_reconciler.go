package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// ClientSaveResult resultado de la conciliación del cliente.
type ClientSaveResult struct {
	Success     bool   `json:"success"`
	ClientID    string `json:"clientId,omitempty"`
	IsNewClient bool   `json:"isNewClient"`
	IsUpdated   bool   `json:"isUpdated"`
	Error       string `json:"error,omitempty"`
}

// SaveClient busca el cliente por nombre (exacto, sin distinguir mayúsculas) dentro de los del usuario.
// Si existe y algún dato de contacto cambió, actualiza los cuatro campos; si no existe, lo crea.
// Cualquier error de base de datos se devuelve envuelto en domain.ErrClientReconciliation.
func SaveClient(ctx context.Context, repo repository.ClientRepository, data entity.ClientData, userID string, now time.Time) (ClientSaveResult, error) {
	fail := func(step string, err error) (ClientSaveResult, error) {
		err = fmt.Errorf("%w: %s: %w", domain.ErrClientReconciliation, step, err)
		return ClientSaveResult{Error: err.Error()}, err
	}

	name := strings.TrimSpace(data.Name)
	if name == "" {
		err := domain.NewValidationError("clientName", "client name is required")
		return ClientSaveResult{Error: err.Error()}, err
	}

	candidates, err := repo.SearchByName(ctx, userID, name)
	if err != nil {
		return fail("lookup", err)
	}
	existing := exactNameMatch(candidates, name)

	if existing != nil {
		if !contactChanged(existing, data) {
			return ClientSaveResult{Success: true, ClientID: existing.ID}, nil
		}
		existing.Email = strings.TrimSpace(data.Email)
		existing.Phone = strings.TrimSpace(data.Phone)
		existing.Address = strings.TrimSpace(data.Address)
		existing.CompanyName = strings.TrimSpace(data.CompanyName)
		existing.UpdatedAt = now
		if err := repo.UpdateContact(ctx, existing); err != nil {
			return fail("update", err)
		}
		return ClientSaveResult{Success: true, ClientID: existing.ID, IsUpdated: true}, nil
	}

	c := &entity.Client{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Email:       strings.TrimSpace(data.Email),
		Phone:       strings.TrimSpace(data.Phone),
		Address:     strings.TrimSpace(data.Address),
		CompanyName: strings.TrimSpace(data.CompanyName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(ctx, c); err != nil {
		return fail("insert", err)
	}
	return ClientSaveResult{Success: true, ClientID: c.ID, IsNewClient: true}, nil
}

// exactNameMatch post-filtro del ILIKE: igualdad sin distinguir mayúsculas tras recortar espacios.
func exactNameMatch(candidates []*entity.Client, name string) *entity.Client {
	for _, c := range candidates {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return c
		}
	}
	return nil
}

// contactChanged compara email, dirección, teléfono y empresa; vacío y NULL son iguales.
func contactChanged(c *entity.Client, data entity.ClientData) bool {
	norm := strings.TrimSpace
	return norm(c.Email) != norm(data.Email) ||
		norm(c.Address) != norm(data.Address) ||
		norm(c.Phone) != norm(data.Phone) ||
		norm(c.CompanyName) != norm(data.CompanyName)
}
