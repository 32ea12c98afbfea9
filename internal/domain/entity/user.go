package entity

import "time"

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User representa la cuenta dueña de clientes, facturas y borradores.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
