package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fechas del formulario (input type=date).
const DateLayout = "2006-01-02"

// InvoiceItem línea editable. LineTotal siempre se recalcula desde sus entradas.
type InvoiceItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"` // %
	TaxRate     decimal.Decimal `json:"taxRate"`  // %
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// InvoiceForm estado de edición de una factura (borrador), compartido por ambas plantillas.
// Los campos Professional se ignoran en la plantilla default.
type InvoiceForm struct {
	ID       string        `json:"id,omitempty"`
	ClientID string        `json:"clientId,omitempty"`
	Template Template      `json:"template"`
	Status   InvoiceStatus `json:"status,omitempty"`

	ClientName    string `json:"clientName"`
	ClientEmail   string `json:"clientEmail"`
	ClientPhone   string `json:"clientPhone"`
	ClientAddress string `json:"clientAddress"`
	ClientCompany string `json:"clientCompany"`

	InvoiceNumber string `json:"invoiceNumber"`
	IssueDate     string `json:"issueDate"`
	DueDate       string `json:"dueDate"`

	Items []InvoiceItem `json:"items"`
	Notes string        `json:"notes"`
	Terms string        `json:"terms"`

	Subtotal           decimal.Decimal `json:"subtotal"`
	TotalItemDiscounts decimal.Decimal `json:"totalItemDiscounts"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	DiscountIsManual   bool            `json:"discountIsManual"`
	ShippingCost       decimal.Decimal `json:"shippingCost"`
	TaxTotal           decimal.Decimal `json:"taxTotal"`
	GrandTotal         decimal.Decimal `json:"total"`
	AmountPaid         decimal.Decimal `json:"amountPaid"`
	BalanceDue         decimal.Decimal `json:"balanceDue"`

	Currency                 string   `json:"currency"`
	CurrencySymbol           string   `json:"currencySymbol,omitempty"`
	SelectedPaymentMethodIDs []string `json:"selectedPaymentMethods"`

	PONumber           string `json:"poNumber,omitempty"`
	TaxID              string `json:"taxId,omitempty"`
	ShipToName         string `json:"shipToName,omitempty"`
	ShipToAddress      string `json:"shipToAddress,omitempty"`
	TermsAndConditions string `json:"termsAndConditions,omitempty"`
}

// ClientData extrae los datos de contacto del cliente.
func (f *InvoiceForm) ClientData() ClientData {
	return ClientData{
		Name:        f.ClientName,
		Email:       f.ClientEmail,
		Phone:       f.ClientPhone,
		Address:     f.ClientAddress,
		CompanyName: f.ClientCompany,
	}
}

// IsProfessional indica si aplica la plantilla con descuentos, envío y abonos.
func (f *InvoiceForm) IsProfessional() bool {
	return f.Template == TemplateProfessional
}

// ParseFormDate acepta YYYY-MM-DD o RFC3339; vacío devuelve zero time.
func ParseFormDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if len(s) > len(DateLayout) {
		// ISO completo (2024-05-01T00:00:00.000Z); cualquier otro sufijo es inválido
		return time.Parse(time.RFC3339, s)
	}
	return time.Parse(DateLayout, s)
}

// FormatFormDate inverso de ParseFormDate.
func FormatFormDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
