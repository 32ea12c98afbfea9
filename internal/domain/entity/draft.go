package entity

import "time"

// Claves del almacén de borradores (una por plantilla, más la genérica heredada).
const (
	DraftKeyLegacy       = "invoice-draft"
	DraftKeyDefault      = "invoice-draft:default"
	DraftKeyProfessional = "invoice-draft:professional"

	SettingsKeyDefault      = "template-settings:default"
	SettingsKeyProfessional = "template-settings:professional"
)

// DraftKey clave del borrador del formulario para la plantilla.
func DraftKey(t Template) string {
	if t == TemplateProfessional {
		return DraftKeyProfessional
	}
	return DraftKeyDefault
}

// SettingsKey clave de la personalización sin guardar para la plantilla.
func SettingsKey(t Template) string {
	if t == TemplateProfessional {
		return SettingsKeyProfessional
	}
	return SettingsKeyDefault
}

// Draft valor JSON guardado bajo (UserID, Key).
type Draft struct {
	UserID    string
	Key       string
	Payload   []byte
	UpdatedAt time.Time
}
