package entity

import "time"

// Profile datos de marca y preferencias del usuario.
type Profile struct {
	UserID          string
	FullName        string
	CompanyName     string
	CompanyAddress  string
	CompanyPhone    string
	CompanyEmail    string
	TaxID           string
	Website         string
	AvatarURL       string
	DefaultCurrency string
	PaymentMethods  []PaymentMethod
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PaymentMethodsByID devuelve los métodos seleccionados en el orden pedido; los IDs inexistentes se omiten.
func (p *Profile) PaymentMethodsByID(ids []string) []PaymentMethod {
	if p == nil || len(ids) == 0 {
		return nil
	}
	byID := make(map[string]PaymentMethod, len(p.PaymentMethods))
	for _, m := range p.PaymentMethods {
		byID[m.ID] = m
	}
	out := make([]PaymentMethod, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out
}
