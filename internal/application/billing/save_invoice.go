package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// SaveOptions ajustes opcionales del guardado.
type SaveOptions struct {
	// Status sobrescribe el estado; vacío conserva el existente (o draft si la factura es nueva).
	Status entity.InvoiceStatus
	// TemplateSettings personalización a persistir con la factura; nil conserva la guardada.
	TemplateSettings *entity.TemplateSettings
}

// SaveResult resultado de un guardado correcto.
type SaveResult struct {
	InvoiceID string               `json:"invoiceId"`
	ClientID  string               `json:"clientId"`
	Status    entity.InvoiceStatus `json:"status"`
	Created   bool                 `json:"created"`
	Client    ClientSaveResult     `json:"client"`
}

// InvoiceService guardado y lectura de facturas.
type InvoiceService struct {
	tx       InvoiceTxRunner
	invoices repository.InvoiceRepository
	clients  repository.ClientRepository
	drafts   DraftStore
	exporter InvoiceExporter
	guard    *InflightGuard
	log      zerolog.Logger
	now      func() time.Time
}

// NewInvoiceService construye el servicio. exporter puede ser nil si no se expone la exportación.
func NewInvoiceService(
	tx InvoiceTxRunner,
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	drafts DraftStore,
	exporter InvoiceExporter,
	log zerolog.Logger,
) *InvoiceService {
	return &InvoiceService{
		tx:       tx,
		invoices: invoices,
		clients:  clients,
		drafts:   drafts,
		exporter: exporter,
		guard:    NewInflightGuard(),
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (s *InvoiceService) WithClock(now func() time.Time) *InvoiceService {
	s.now = now
	return s
}

// Save persiste el formulario: concilia el cliente, crea o actualiza la cabecera y reemplaza las líneas,
// todo en una transacción. Al terminar borra el borrador de la plantilla y sella ID, ClientID y Status en form.
//
// Errores: domain.ErrSaveInProgress si ya hay un guardado de la misma factura en curso;
// *domain.ValidationError; domain.ErrClientReconciliation; domain.ErrPersistence.
func (s *InvoiceService) Save(ctx context.Context, userID string, form *entity.InvoiceForm, opts SaveOptions) (*SaveResult, error) {
	number := strings.TrimSpace(form.InvoiceNumber)
	release, ok := s.guard.TryAcquire(saveKey(userID, number))
	if !ok {
		s.log.Debug().Str("user_id", userID).Str("invoice_number", number).Msg("guardado omitido: ya hay uno en curso")
		return nil, domain.ErrSaveInProgress
	}
	defer release()

	tpl, err := entity.ParseTemplate(string(form.Template))
	if err != nil {
		return nil, domain.NewValidationError("template", err.Error())
	}
	form.Template = tpl
	if err := validateForm(userID, form); err != nil {
		return nil, err
	}
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status "+string(opts.Status))
	}
	if opts.TemplateSettings != nil {
		if err := opts.TemplateSettings.Validate(); err != nil {
			return nil, domain.NewValidationError("templateSettings", err.Error())
		}
	}

	invoice.Apply(form)
	now := s.now()
	var res SaveResult

	err = s.tx.RunInvoice(ctx, func(clientRepo repository.ClientRepository, invoiceRepo repository.InvoiceRepository) error {
		cres, err := SaveClient(ctx, clientRepo, form.ClientData(), userID, now)
		res.Client = cres
		if err != nil {
			return err
		}

		header := headerFromForm(form, userID, cres.ClientID)
		header.UpdatedAt = now

		existing, err := invoiceRepo.GetByNumber(ctx, userID, number)
		if err != nil {
			return fmt.Errorf("%w: lookup: %w", domain.ErrPersistence, err)
		}

		if existing != nil {
			header.ID = existing.ID
			header.CreatedAt = existing.CreatedAt
			header.Status = existing.Status
			header.TemplateSettings = existing.TemplateSettings
			if opts.Status != "" {
				header.Status = opts.Status
			}
			if opts.TemplateSettings != nil {
				header.TemplateSettings = opts.TemplateSettings
			}
			if err := invoiceRepo.Update(ctx, header); err != nil {
				return fmt.Errorf("%w: update header: %w", domain.ErrPersistence, err)
			}
			if err := invoiceRepo.DeleteLines(ctx, header.ID); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
			}
		} else {
			header.Status = entity.StatusDraft
			if opts.Status != "" {
				header.Status = opts.Status
			}
			header.TemplateSettings = opts.TemplateSettings
			header.CreatedAt = now
			if err := invoiceRepo.Create(ctx, header); err != nil {
				return fmt.Errorf("%w: insert header: %w", domain.ErrPersistence, err)
			}
			res.Created = true
		}

		if err := invoiceRepo.CreateLines(ctx, linesFromForm(form, header.ID)); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		res.InvoiceID = header.ID
		res.ClientID = cres.ClientID
		res.Status = header.Status
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrClientReconciliation) && !errors.Is(err, domain.ErrPersistence) && !errors.Is(err, domain.ErrInvalidInput) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		s.log.Error().Err(err).Str("user_id", userID).Str("invoice_number", number).Msg("guardar factura")
		return nil, err
	}

	if s.drafts != nil {
		if err := s.drafts.Clear(ctx, userID, entity.DraftKey(form.Template)); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo borrar el borrador tras guardar")
		}
	}

	form.ID = res.InvoiceID
	form.ClientID = res.ClientID
	form.Status = res.Status
	s.log.Info().Str("user_id", userID).Str("invoice_number", number).Bool("created", res.Created).Msg("factura guardada")
	return &res, nil
}

// SavedInvoice factura persistida junto con su formulario reconstruido.
type SavedInvoice struct {
	Header *entity.Invoice
	Form   *entity.InvoiceForm
}

// Get carga la factura del usuario por número; domain.ErrNotFound si no existe.
func (s *InvoiceService) Get(ctx context.Context, userID, number string) (*SavedInvoice, error) {
	inv, err := s.invoices.GetByNumber(ctx, userID, strings.TrimSpace(number))
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := s.invoices.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener líneas: %w", err)
	}
	client, err := s.clients.GetByID(ctx, userID, inv.ClientID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	return &SavedInvoice{Header: inv, Form: FormFromInvoice(inv, lines, client)}, nil
}

// List resumen paginado de las facturas del usuario.
func (s *InvoiceService) List(ctx context.Context, userID string, filter repository.InvoiceFilter) ([]entity.InvoiceSummary, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status "+string(filter.Status))
	}
	return s.invoices.List(ctx, userID, filter)
}

// UpdateStatus cambio explícito de estado (por ejemplo a paid o cancelled).
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, number string, status entity.InvoiceStatus) error {
	if !status.Valid() {
		return domain.NewValidationError("status", "unknown status "+string(status))
	}
	found, err := s.invoices.UpdateStatus(ctx, userID, number, status)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

// MarkPending pasa la factura de draft a pending. No toca otros estados.
func (s *InvoiceService) MarkPending(ctx context.Context, userID, number string) error {
	inv, err := s.invoices.GetByNumber(ctx, userID, number)
	if err != nil {
		return err
	}
	if inv == nil || inv.Status != entity.StatusDraft {
		return nil
	}
	_, err = s.invoices.UpdateStatus(ctx, userID, number, entity.StatusPending)
	return err
}

// ExportXLSX todas las facturas que cumplen el filtro, serializadas por el exportador.
func (s *InvoiceService) ExportXLSX(ctx context.Context, userID string, filter repository.InvoiceFilter) ([]byte, error) {
	if s.exporter == nil {
		return nil, errors.New("exportación no configurada")
	}
	filter.Limit, filter.Offset = 10000, 0
	rows, err := s.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return s.exporter.ExportInvoices(rows)
}
