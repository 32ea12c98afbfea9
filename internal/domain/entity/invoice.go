package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Template plantilla visual y de campos de una factura.
type Template string

const (
	TemplateDefault      Template = "default"
	TemplateProfessional Template = "professional"
)

// ParseTemplate valida el nombre de plantilla; vacío equivale a default.
func ParseTemplate(s string) (Template, error) {
	switch Template(s) {
	case "", TemplateDefault:
		return TemplateDefault, nil
	case TemplateProfessional:
		return TemplateProfessional, nil
	}
	return "", fmt.Errorf("plantilla desconocida %q", s)
}

// InvoiceStatus estado de cobro de la factura.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusPending   InvoiceStatus = "pending"
	StatusPaid      InvoiceStatus = "paid"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusCancelled InvoiceStatus = "cancelled"
)

// Valid indica si el estado es uno de los conocidos.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Invoice cabecera persistida. Única por (InvoiceNumber, UserID).
type Invoice struct {
	ID                       string
	UserID                   string
	ClientID                 string
	InvoiceNumber            string
	IssueDate                time.Time
	DueDate                  time.Time
	Status                   InvoiceStatus
	Template                 Template
	Currency                 string
	CurrencySymbol           string
	Subtotal                 decimal.Decimal
	TaxTotal                 decimal.Decimal
	DiscountAmount           decimal.Decimal
	ShippingCost             decimal.Decimal
	AmountPaid               decimal.Decimal
	TotalAmount              decimal.Decimal
	BalanceDue               decimal.Decimal
	Notes                    string
	Terms                    string
	SelectedPaymentMethodIDs []string
	TemplateData             TemplateData      // JSONB template_data
	TemplateSettings         *TemplateSettings // JSONB template_settings; nil = sin personalizar
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// TemplateData campos propios de cada plantilla que no tienen columna.
type TemplateData struct {
	PONumber           string `json:"poNumber,omitempty"`
	TaxID              string `json:"taxId,omitempty"`
	ShipToName         string `json:"shipToName,omitempty"`
	ShipToAddress      string `json:"shipToAddress,omitempty"`
	TermsAndConditions string `json:"termsAndConditions,omitempty"`
	DiscountIsManual   bool   `json:"discountIsManual,omitempty"`
}

// InvoiceLine línea persistida en invoice_items.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // porcentaje, solo plantilla professional
	TaxRate     decimal.Decimal // porcentaje
	Amount      decimal.Decimal
}

// InvoiceSummary fila del listado de facturas.
type InvoiceSummary struct {
	ID            string
	InvoiceNumber string
	ClientName    string
	IssueDate     time.Time
	DueDate       time.Time
	Status        InvoiceStatus
	Template      Template
	Currency      string
	TotalAmount   decimal.Decimal
	BalanceDue    decimal.Decimal
}
