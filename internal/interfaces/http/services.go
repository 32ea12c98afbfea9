package http

import (
	"context"

	"github.com/jhoicas/invoice-studio-api/internal/application/billing"
	"github.com/jhoicas/invoice-studio-api/internal/application/rendering"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// InvoiceService lo que los handlers usan de billing.InvoiceService.
type InvoiceService interface {
	Save(ctx context.Context, userID string, form *entity.InvoiceForm, opts billing.SaveOptions) (*billing.SaveResult, error)
	Get(ctx context.Context, userID, number string) (*billing.SavedInvoice, error)
	List(ctx context.Context, userID string, filter repository.InvoiceFilter) ([]entity.InvoiceSummary, error)
	UpdateStatus(ctx context.Context, userID, number string, status entity.InvoiceStatus) error
	ExportXLSX(ctx context.Context, userID string, filter repository.InvoiceFilter) ([]byte, error)
}

// DeliveryService lo que los handlers usan de billing.DeliveryService.
type DeliveryService interface {
	Preview(ctx context.Context, userID string, form *entity.InvoiceForm, settings *entity.TemplateSettings) (*rendering.Document, error)
	DownloadPDF(ctx context.Context, userID string, form *entity.InvoiceForm, settings *entity.TemplateSettings) (*billing.PDFFile, error)
	SendInvoice(ctx context.Context, req billing.SendRequest) error
}

// EditorService resuelve el estado inicial del editor.
type EditorService interface {
	Resolve(ctx context.Context, req billing.EditorRequest) (*billing.EditorState, error)
}

// DraftStore almacén de borradores y personalización de sesión.
type DraftStore interface {
	Save(ctx context.Context, userID, key string, v any) error
	Load(ctx context.Context, userID, key string, v any) (bool, error)
	Clear(ctx context.Context, userID, key string) error
}

var (
	_ InvoiceService  = (*billing.InvoiceService)(nil)
	_ DeliveryService = (*billing.DeliveryService)(nil)
	_ EditorService   = (*billing.EditorService)(nil)
)
