package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, user_id, client_id, invoice_number, issue_date, due_date, status, template,
	currency, currency_symbol, subtotal, tax_total, discount_amount, shipping_cost, amount_paid,
	total_amount, balance_due, notes, terms, selected_payment_method_ids, template_data,
	template_settings, created_at, updated_at`

// encodeJSONB serializa los campos JSONB de la cabecera.
func encodeJSONB(inv *entity.Invoice) (data, settings []byte, err error) {
	data, err = json.Marshal(inv.TemplateData)
	if err != nil {
		return nil, nil, fmt.Errorf("encode template_data: %w", err)
	}
	if inv.TemplateSettings != nil {
		settings, err = json.Marshal(inv.TemplateSettings)
		if err != nil {
			return nil, nil, fmt.Errorf("encode template_settings: %w", err)
		}
	}
	return data, settings, nil
}

func nullDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func paymentIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	data, settings, err := encodeJSONB(inv)
	if err != nil {
		return err
	}
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.UserID, inv.ClientID, inv.InvoiceNumber, nullDate(inv.IssueDate), nullDate(inv.DueDate),
		inv.Status, inv.Template, inv.Currency, inv.CurrencySymbol,
		inv.Subtotal, inv.TaxTotal, inv.DiscountAmount, inv.ShippingCost, inv.AmountPaid,
		inv.TotalAmount, inv.BalanceDue, inv.Notes, inv.Terms, paymentIDs(inv.SelectedPaymentMethodIDs),
		data, settings, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update sobrescribe la cabecera completa (la factura ya existe para ese usuario).
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	data, settings, err := encodeJSONB(inv)
	if err != nil {
		return err
	}
	const query = `
		UPDATE invoices
		SET client_id = $3, issue_date = $4, due_date = $5, status = $6, template = $7,
		    currency = $8, currency_symbol = $9, subtotal = $10, tax_total = $11,
		    discount_amount = $12, shipping_cost = $13, amount_paid = $14, total_amount = $15,
		    balance_due = $16, notes = $17, terms = $18, selected_payment_method_ids = $19,
		    template_data = $20, template_settings = $21, updated_at = $22
		WHERE id = $1 AND user_id = $2`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.UserID, inv.ClientID, nullDate(inv.IssueDate), nullDate(inv.DueDate),
		inv.Status, inv.Template, inv.Currency, inv.CurrencySymbol,
		inv.Subtotal, inv.TaxTotal, inv.DiscountAmount, inv.ShippingCost, inv.AmountPaid,
		inv.TotalAmount, inv.BalanceDue, inv.Notes, inv.Terms, paymentIDs(inv.SelectedPaymentMethodIDs),
		data, settings, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia solo el estado.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, userID, number string, status entity.InvoiceStatus) (bool, error) {
	const query = `
		UPDATE invoices SET status = $3, updated_at = NOW()
		WHERE user_id = $1 AND invoice_number = $2`
	tag, err := r.q.Exec(ctx, query, userID, number, status)
	if err != nil {
		return false, fmt.Errorf("update invoice status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByNumber obtiene la cabecera por número dentro de las facturas del usuario.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, userID, number string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 AND invoice_number = $2`
	var (
		inv                entity.Invoice
		issueDate, dueDate *time.Time
		data, settings     []byte
	)
	err := r.q.QueryRow(ctx, query, userID, number).Scan(
		&inv.ID, &inv.UserID, &inv.ClientID, &inv.InvoiceNumber, &issueDate, &dueDate,
		&inv.Status, &inv.Template, &inv.Currency, &inv.CurrencySymbol,
		&inv.Subtotal, &inv.TaxTotal, &inv.DiscountAmount, &inv.ShippingCost, &inv.AmountPaid,
		&inv.TotalAmount, &inv.BalanceDue, &inv.Notes, &inv.Terms, &inv.SelectedPaymentMethodIDs,
		&data, &settings, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if issueDate != nil {
		inv.IssueDate = *issueDate
	}
	if dueDate != nil {
		inv.DueDate = *dueDate
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &inv.TemplateData); err != nil {
			return nil, fmt.Errorf("decode template_data: %w", err)
		}
	}
	if len(settings) > 0 {
		var s entity.TemplateSettings
		if err := json.Unmarshal(settings, &s); err != nil {
			return nil, fmt.Errorf("decode template_settings: %w", err)
		}
		inv.TemplateSettings = &s
	}
	return &inv, nil
}

// DeleteLines borra todas las líneas de la factura.
func (r *InvoiceRepo) DeleteLines(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

// CreateLines inserta las líneas en un solo batch.
func (r *InvoiceRepo) CreateLines(ctx context.Context, lines []*entity.InvoiceLine) error {
	if len(lines) == 0 {
		return nil
	}
	const query = `
		INSERT INTO invoice_items (id, invoice_id, position, description, quantity, unit_price, discount, tax_rate, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	batch := &pgx.Batch{}
	for _, l := range lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		batch.Queue(query, l.ID, l.InvoiceID, l.Position, l.Description,
			l.Quantity, l.UnitPrice, l.Discount, l.TaxRate, l.Amount)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

// GetLines líneas de la factura en su orden de captura.
func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	const query = `
		SELECT id, invoice_id, position, description, quantity, unit_price, discount, tax_rate, amount
		FROM invoice_items WHERE invoice_id = $1
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()

	var out []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Position, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.Discount, &l.TaxRate, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// List resumen de facturas del usuario, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, userID string, f repository.InvoiceFilter) ([]entity.InvoiceSummary, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	const query = `
		SELECT i.id, i.invoice_number, c.name, i.issue_date, i.due_date, i.status, i.template,
		       i.currency, i.total_amount, i.balance_due
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.user_id = $1 AND ($2 = '' OR i.status = $2)
		ORDER BY i.issue_date DESC NULLS LAST, i.created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, userID, string(f.Status), f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []entity.InvoiceSummary
	for rows.Next() {
		var (
			s                  entity.InvoiceSummary
			issueDate, dueDate *time.Time
		)
		if err := rows.Scan(&s.ID, &s.InvoiceNumber, &s.ClientName, &issueDate, &dueDate,
			&s.Status, &s.Template, &s.Currency, &s.TotalAmount, &s.BalanceDue); err != nil {
			return nil, fmt.Errorf("scan invoice summary: %w", err)
		}
		if issueDate != nil {
			s.IssueDate = *issueDate
		}
		if dueDate != nil {
			s.DueDate = *dueDate
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MarkOverdue pasa a overdue las pendientes vencidas y devuelve cuáles cambiaron.
func (r *InvoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]repository.OverdueInvoice, error) {
	const query = `
		UPDATE invoices i
		SET status = 'overdue', updated_at = NOW()
		FROM clients c
		WHERE c.id = i.client_id
		  AND i.status = 'pending'
		  AND i.due_date IS NOT NULL
		  AND i.due_date < $1::date
		RETURNING i.user_id, i.invoice_number, c.name, i.balance_due`
	rows, err := r.q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("mark overdue: %w", err)
	}
	defer rows.Close()

	var out []repository.OverdueInvoice
	for rows.Next() {
		var o repository.OverdueInvoice
		if err := rows.Scan(&o.UserID, &o.InvoiceNumber, &o.ClientName, &o.BalanceDue); err != nil {
			return nil, fmt.Errorf("scan overdue: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
