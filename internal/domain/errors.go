package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Guardado, render y envío de facturas.
	ErrSaveInProgress             = errors.New("save already in progress")
	ErrClientReconciliation       = errors.New("no se pudo guardar el cliente")
	ErrPersistence                = errors.New("no se pudo guardar la factura")
	ErrRender                     = errors.New("no se pudo generar el documento")
	ErrMailDelivery               = errors.New("no se pudo enviar el correo")
	ErrDomainVerificationRequired = errors.New("el dominio del remitente no está verificado")
)

// ValidationError error de validación de un campo concreto; se reporta al usuario tal cual.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
