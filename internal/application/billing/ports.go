package billing

import (
	"context"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn dentro de una transacción con los repos de clientes y facturas.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		clientRepo repository.ClientRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// DraftStore lo que la facturación necesita del almacén de borradores.
type DraftStore interface {
	Load(ctx context.Context, userID, key string, v any) (bool, error)
	Clear(ctx context.Context, userID, key string) error
}

// Notifier registra una entrada en el feed del usuario. No falla: los errores se loguean.
type Notifier interface {
	Emit(ctx context.Context, n *entity.Notification)
}

// InvoiceExporter serializa el listado de facturas a un formato descargable.
type InvoiceExporter interface {
	ExportInvoices(rows []entity.InvoiceSummary) ([]byte, error)
}
