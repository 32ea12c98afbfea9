package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	Status entity.InvoiceStatus // vacío = todos
	Limit  int
	Offset int
}

// OverdueInvoice factura que el barrido marcó como vencida.
type OverdueInvoice struct {
	UserID        string
	InvoiceNumber string
	ClientName    string
	BalanceDue    decimal.Decimal
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// GetByNumber busca la cabecera por (invoice_number, user_id). nil si no existe.
	GetByNumber(ctx context.Context, userID, number string) (*entity.Invoice, error)
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update sobrescribe todos los campos de cabecera (incluido status).
	Update(ctx context.Context, invoice *entity.Invoice) error
	// UpdateStatus cambia solo el estado; false si la factura no existe.
	UpdateStatus(ctx context.Context, userID, number string, status entity.InvoiceStatus) (bool, error)

	// DeleteLines borra todas las líneas de la factura (reemplazo completo, sin diff).
	DeleteLines(ctx context.Context, invoiceID string) error
	CreateLines(ctx context.Context, lines []*entity.InvoiceLine) error
	GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error)

	List(ctx context.Context, userID string, filter InvoiceFilter) ([]entity.InvoiceSummary, error)
	// MarkOverdue pasa a overdue las facturas pending cuyo due_date es anterior a asOf.
	MarkOverdue(ctx context.Context, asOf time.Time) ([]OverdueInvoice, error)
}
