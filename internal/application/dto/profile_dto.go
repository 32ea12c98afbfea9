package dto

import (
	"time"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// ProfileRequest body de PUT /api/profile.
type ProfileRequest struct {
	FullName        string `json:"fullName" validate:"max=200"`
	CompanyName     string `json:"companyName" validate:"max=200"`
	CompanyAddress  string `json:"companyAddress" validate:"max=500"`
	CompanyPhone    string `json:"companyPhone" validate:"max=50"`
	CompanyEmail    string `json:"companyEmail" validate:"omitempty,email"`
	TaxID           string `json:"taxId" validate:"max=50"`
	Website         string `json:"website" validate:"max=200"`
	AvatarURL       string `json:"avatarUrl" validate:"omitempty,url"`
	DefaultCurrency string `json:"defaultCurrency" validate:"omitempty,len=3"`
}

// ToEntity datos de marca a persistir.
func (r ProfileRequest) ToEntity() entity.Profile {
	return entity.Profile{
		FullName:        r.FullName,
		CompanyName:     r.CompanyName,
		CompanyAddress:  r.CompanyAddress,
		CompanyPhone:    r.CompanyPhone,
		CompanyEmail:    r.CompanyEmail,
		TaxID:           r.TaxID,
		Website:         r.Website,
		AvatarURL:       r.AvatarURL,
		DefaultCurrency: r.DefaultCurrency,
	}
}

// ProfileResponse perfil con sus métodos de pago.
type ProfileResponse struct {
	ProfileRequest
	PaymentMethods []entity.PaymentMethod `json:"paymentMethods"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// NewProfileResponse arma la respuesta.
func NewProfileResponse(p *entity.Profile) ProfileResponse {
	methods := p.PaymentMethods
	if methods == nil {
		methods = []entity.PaymentMethod{}
	}
	return ProfileResponse{
		ProfileRequest: ProfileRequest{
			FullName:        p.FullName,
			CompanyName:     p.CompanyName,
			CompanyAddress:  p.CompanyAddress,
			CompanyPhone:    p.CompanyPhone,
			CompanyEmail:    p.CompanyEmail,
			TaxID:           p.TaxID,
			Website:         p.Website,
			AvatarURL:       p.AvatarURL,
			DefaultCurrency: p.DefaultCurrency,
		},
		PaymentMethods: methods,
		UpdatedAt:      p.UpdatedAt,
	}
}

// PaymentMethodRequest body de POST /api/profile/payment-methods.
type PaymentMethodRequest struct {
	Type    string            `json:"type" validate:"required,oneof=bank paypal crypto other"`
	Label   string            `json:"label" validate:"max=100"`
	Details map[string]string `json:"details" validate:"required"`
}
