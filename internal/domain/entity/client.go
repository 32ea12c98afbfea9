package entity

import "time"

// Client cliente facturado. El nombre es la clave de búsqueda (sin distinguir mayúsculas)
// dentro de los clientes de un usuario.
type Client struct {
	ID          string
	UserID      string
	Name        string
	Email       string
	Phone       string
	Address     string
	CompanyName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ClientData datos de contacto tal como llegan del formulario.
type ClientData struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	CompanyName string
}
