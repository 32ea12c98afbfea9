package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-studio-api/pkg/numfmt"
)

// Campos numéricos del formulario que pueden llegar como texto con separadores ("1,234.50").
var (
	formAmountFields = []string{
		"subtotal", "totalItemDiscounts", "discountAmount", "shippingCost",
		"taxTotal", "total", "amountPaid", "balanceDue",
	}
	itemAmountFields = []string{"quantity", "unitPrice", "discount", "taxRate", "lineTotal"}
)

// DecodeInvoiceForm decodifica el formulario aceptando importes numéricos o como texto formateado.
// Un texto que no es número se interpreta como 0, igual que el campo del editor.
func DecodeInvoiceForm(raw []byte) (*entity.InvoiceForm, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("invoiceData: %w", err)
	}
	coerceAmounts(obj, formAmountFields)

	if items, ok := obj["items"]; ok && string(items) != "null" {
		var list []map[string]json.RawMessage
		if err := json.Unmarshal(items, &list); err != nil {
			return nil, fmt.Errorf("invoiceData.items: %w", err)
		}
		for _, it := range list {
			coerceAmounts(it, itemAmountFields)
		}
		b, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		obj["items"] = b
	}

	normalized, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var form entity.InvoiceForm
	if err := json.Unmarshal(normalized, &form); err != nil {
		return nil, fmt.Errorf("invoiceData: %w", err)
	}
	return &form, nil
}

// coerceAmounts reemplaza los importes de texto por su valor decimal canónico.
func coerceAmounts(obj map[string]json.RawMessage, fields []string) {
	for _, k := range fields {
		v, ok := obj[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			continue // número o null: decimal lo entiende tal cual
		}
		obj[k] = json.RawMessage(`"` + numfmt.ParseDecimal(s).String() + `"`)
	}
}

// UserData datos del emisor enviados por el cliente web.
type UserData struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	CompanyName string `json:"companyName"`
}

// SaveInvoiceRequest body de POST /api/invoices.
type SaveInvoiceRequest struct {
	InvoiceData      json.RawMessage          `json:"invoiceData"`
	Status           string                   `json:"status,omitempty"`
	TemplateSettings *entity.TemplateSettings `json:"templateSettings,omitempty"`
}

// CalculateRequest body de POST /api/invoices/calculate.
type CalculateRequest struct {
	InvoiceData json.RawMessage `json:"invoiceData"`
}

// PDFRequest body de POST /api/pdf.
type PDFRequest struct {
	InvoiceData      json.RawMessage          `json:"invoiceData"`
	User             *UserData                `json:"user,omitempty"`
	TemplateSettings *entity.TemplateSettings `json:"templateSettings,omitempty"`
}

// SendInvoiceRequest body de POST /api/email/send-invoice.
type SendInvoiceRequest struct {
	To               string                   `json:"to"`
	InvoiceData      json.RawMessage          `json:"invoiceData"`
	UserData         *UserData                `json:"userData,omitempty"`
	UserEmail        string                   `json:"userEmail"`
	ClientName       string                   `json:"clientName"`
	GreetingMessage  string                   `json:"greetingMessage"`
	BusinessName     string                   `json:"businessName"`
	TemplateSettings *entity.TemplateSettings `json:"templateSettings,omitempty"`
}

// SendInvoiceResponse resultado del envío. Type = "domain_verification_required" cuando el dominio
// del remitente no está verificado.
type SendInvoiceResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Type    string `json:"type,omitempty"`
}

// UpdateStatusRequest body de PATCH /api/invoices/:number/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft pending paid overdue cancelled"`
}

// EditorRequest body opcional de POST /api/editor/:template (estado de navegación).
type EditorRequest struct {
	InvoiceData json.RawMessage `json:"invoiceData"`
}

// TotalsResponse totales recalculados de un formulario.
type TotalsResponse struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	TotalItemDiscounts decimal.Decimal `json:"totalItemDiscounts"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	EffectiveDiscount  decimal.Decimal `json:"effectiveDiscount"`
	ShippingCost       decimal.Decimal `json:"shippingCost"`
	TaxTotal           decimal.Decimal `json:"taxTotal"`
	Total              decimal.Decimal `json:"total"`
	AmountPaid         decimal.Decimal `json:"amountPaid"`
	BalanceDue         decimal.Decimal `json:"balanceDue"`
	LineTotals         []string        `json:"lineTotals"`
}

// NewTotalsResponse arma la respuesta a partir del formulario ya recalculado.
func NewTotalsResponse(f *entity.InvoiceForm, t invoice.Totals) TotalsResponse {
	lines := make([]string, 0, len(f.Items))
	for _, it := range f.Items {
		lines = append(lines, it.LineTotal.StringFixed(2))
	}
	return TotalsResponse{
		Subtotal:           t.Subtotal,
		TotalItemDiscounts: t.TotalItemDiscounts,
		DiscountAmount:     t.DiscountAmount,
		EffectiveDiscount:  t.EffectiveDiscount,
		ShippingCost:       t.ShippingCost,
		TaxTotal:           t.TaxTotal,
		Total:              t.GrandTotal,
		AmountPaid:         t.AmountPaid,
		BalanceDue:         t.BalanceDue,
		LineTotals:         lines,
	}
}

// InvoiceSummaryResponse fila del listado.
type InvoiceSummaryResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ClientName    string          `json:"clientName"`
	IssueDate     string          `json:"issueDate"`
	DueDate       string          `json:"dueDate"`
	Status        string          `json:"status"`
	Template      string          `json:"template"`
	Currency      string          `json:"currency"`
	Total         decimal.Decimal `json:"total"`
	BalanceDue    decimal.Decimal `json:"balanceDue"`
}

// NewInvoiceSummaries convierte las filas del repositorio.
func NewInvoiceSummaries(rows []entity.InvoiceSummary) []InvoiceSummaryResponse {
	out := make([]InvoiceSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, InvoiceSummaryResponse{
			ID:            r.ID,
			InvoiceNumber: r.InvoiceNumber,
			ClientName:    r.ClientName,
			IssueDate:     entity.FormatFormDate(r.IssueDate),
			DueDate:       entity.FormatFormDate(r.DueDate),
			Status:        string(r.Status),
			Template:      string(r.Template),
			Currency:      r.Currency,
			Total:         r.TotalAmount,
			BalanceDue:    r.BalanceDue,
		})
	}
	return out
}

// InvoiceDetailResponse factura guardada: formulario editable más metadatos.
type InvoiceDetailResponse struct {
	Form             *entity.InvoiceForm      `json:"invoiceData"`
	TemplateSettings *entity.TemplateSettings `json:"templateSettings,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}
