package entity

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Familias tipográficas embebibles en el PDF.
const (
	FontHelvetica = "helvetica"
	FontTimes     = "times"
	FontCourier   = "courier"
)

// Secciones que se pueden ocultar en la plantilla.
const (
	SectionLogo           = "logo"
	SectionCompanyDetails = "companyDetails"
	SectionClientDetails  = "clientDetails"
	SectionNotes          = "notes"
	SectionTerms          = "terms"
	SectionPaymentMethods = "paymentMethods"
	SectionDueCountdown   = "dueCountdown"
)

var settingsValidator = validator.New()

// TemplateSettings personalización de una plantilla (colores, fuente, logo, datos de empresa, secciones).
// Se valida y se combina con los valores por defecto una sola vez al cargar.
type TemplateSettings struct {
	PrimaryColor   string          `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	SecondaryColor string          `json:"secondaryColor,omitempty" validate:"omitempty,hexcolor"`
	AccentColor    string          `json:"accentColor,omitempty" validate:"omitempty,hexcolor"`
	TextColor      string          `json:"textColor,omitempty" validate:"omitempty,hexcolor"`
	FontFamily     string          `json:"fontFamily,omitempty" validate:"omitempty,oneof=helvetica times courier"`
	LogoURL        string          `json:"logoUrl,omitempty" validate:"omitempty,url"`
	CompanyName    string          `json:"companyName,omitempty" validate:"max=200"`
	CompanyAddress string          `json:"companyAddress,omitempty" validate:"max=500"`
	CompanyPhone   string          `json:"companyPhone,omitempty" validate:"max=50"`
	CompanyEmail   string          `json:"companyEmail,omitempty" validate:"omitempty,email"`
	CompanyWebsite string          `json:"companyWebsite,omitempty" validate:"max=200"`
	CompanyTaxID   string          `json:"companyTaxId,omitempty" validate:"max=50"`
	Sections       map[string]bool `json:"sections,omitempty"`
}

// DefaultTemplateSettings valores incorporados de cada plantilla.
func DefaultTemplateSettings(t Template) TemplateSettings {
	s := TemplateSettings{
		PrimaryColor:   "#1F2937",
		SecondaryColor: "#6B7280",
		AccentColor:    "#2563EB",
		TextColor:      "#111827",
		FontFamily:     FontHelvetica,
		Sections: map[string]bool{
			SectionLogo:           true,
			SectionCompanyDetails: true,
			SectionClientDetails:  true,
			SectionNotes:          true,
			SectionTerms:          true,
			SectionPaymentMethods: true,
			SectionDueCountdown:   true,
		},
	}
	if t == TemplateProfessional {
		s.PrimaryColor = "#1E3A8A"
		s.SecondaryColor = "#475569"
		s.AccentColor = "#0EA5E9"
	}
	return s
}

// Validate comprueba colores hex, fuente permitida, URL y email.
func (s TemplateSettings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		return fmt.Errorf("template settings: %w", err)
	}
	for k := range s.Sections {
		if !knownSection(k) {
			return fmt.Errorf("template settings: sección desconocida %q", k)
		}
	}
	return nil
}

// MergeOver completa los campos vacíos de s con los de base.
func (s TemplateSettings) MergeOver(base TemplateSettings) TemplateSettings {
	out := base
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&out.PrimaryColor, s.PrimaryColor)
	pick(&out.SecondaryColor, s.SecondaryColor)
	pick(&out.AccentColor, s.AccentColor)
	pick(&out.TextColor, s.TextColor)
	pick(&out.FontFamily, s.FontFamily)
	pick(&out.LogoURL, s.LogoURL)
	pick(&out.CompanyName, s.CompanyName)
	pick(&out.CompanyAddress, s.CompanyAddress)
	pick(&out.CompanyPhone, s.CompanyPhone)
	pick(&out.CompanyEmail, s.CompanyEmail)
	pick(&out.CompanyWebsite, s.CompanyWebsite)
	pick(&out.CompanyTaxID, s.CompanyTaxID)

	out.Sections = make(map[string]bool, len(base.Sections)+len(s.Sections))
	for k, v := range base.Sections {
		out.Sections[k] = v
	}
	for k, v := range s.Sections {
		out.Sections[k] = v
	}
	return out
}

// Show indica si la sección está visible; las secciones no configuradas se muestran.
func (s TemplateSettings) Show(section string) bool {
	v, ok := s.Sections[section]
	return !ok || v
}

func knownSection(k string) bool {
	switch k {
	case SectionLogo, SectionCompanyDetails, SectionClientDetails, SectionNotes,
		SectionTerms, SectionPaymentMethods, SectionDueCountdown:
		return true
	}
	return false
}
