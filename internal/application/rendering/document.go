// Package rendering arma el modelo de vista común a la vista previa y al PDF de ambas plantillas.
package rendering

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-studio-api/pkg/numfmt"
)

// Renderer convierte un Document en un archivo binario (PDF).
type Renderer interface {
	Render(doc *Document) ([]byte, error)
}

// Party emisor o cliente tal como se imprime.
type Party struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Company  string `json:"company,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
	TaxID    string `json:"taxId,omitempty"`
	LogoURL  string `json:"logoUrl,omitempty"`
}

// Line fila de la tabla de ítems, ya formateada.
type Line struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Discount    string `json:"discount,omitempty"`
	TaxRate     string `json:"taxRate"`
	Amount      string `json:"amount"`
}

// PaymentLine método de pago seleccionado.
type PaymentLine struct {
	Label   string `json:"label"`
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

// Document modelo de vista. Los importes opcionales de professional quedan vacíos cuando son cero.
type Document struct {
	Template       entity.Template         `json:"template"`
	Settings       entity.TemplateSettings `json:"settings"`
	InvoiceNumber  string                  `json:"invoiceNumber"`
	Status         string                  `json:"status,omitempty"`
	IssueDate      string                  `json:"issueDate"`
	DueDate        string                  `json:"dueDate"`
	DaysUntilDue   int                     `json:"daysUntilDue"`
	DueCountdown   string                  `json:"dueCountdown"`
	Currency       string                  `json:"currency"`
	CurrencySymbol string                  `json:"currencySymbol"`

	Business Party  `json:"business"`
	Client   Party  `json:"client"`
	Lines    []Line `json:"lines"`

	Subtotal   string `json:"subtotal"`
	TaxTotal   string `json:"taxTotal"`
	Discount   string `json:"discount,omitempty"`
	Shipping   string `json:"shipping,omitempty"`
	AmountPaid string `json:"amountPaid,omitempty"`
	BalanceDue string `json:"balanceDue,omitempty"`
	GrandTotal string `json:"grandTotal"`

	Notes string `json:"notes,omitempty"`
	Terms string `json:"terms,omitempty"`

	PONumber           string `json:"poNumber,omitempty"`
	TaxID              string `json:"taxId,omitempty"`
	ShipTo             *Party `json:"shipTo,omitempty"`
	TermsAndConditions string `json:"termsAndConditions,omitempty"`

	PaymentMethods []PaymentLine `json:"paymentMethods,omitempty"`

	Totals invoice.Totals `json:"-"`
}

// Filename nombre del adjunto descargable.
func (d *Document) Filename() string {
	return "invoice-" + d.InvoiceNumber + ".pdf"
}

// Money importe con símbolo y agrupación de miles: "$1,234.50".
func (d *Document) Money(v decimal.Decimal) string {
	return money(d.CurrencySymbol, v)
}

func money(symbol string, v decimal.Decimal) string {
	if v.IsNegative() {
		return "-" + symbol + numfmt.FormatDecimal(v.Neg())
	}
	return symbol + numfmt.FormatDecimal(v)
}

// BuildDocument calcula los valores derivados del formulario. settings nil usa los de la plantilla;
// profile puede ser nil. El formulario no se modifica.
//
// Devuelve domain.ErrRender si falta el número de factura o el nombre del cliente.
func BuildDocument(form *entity.InvoiceForm, settings *entity.TemplateSettings, profile *entity.Profile, now time.Time) (*Document, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: invoice data is required", domain.ErrRender)
	}
	if strings.TrimSpace(form.InvoiceNumber) == "" {
		return nil, fmt.Errorf("%w: invoice number is required", domain.ErrRender)
	}
	if strings.TrimSpace(form.ClientName) == "" {
		return nil, fmt.Errorf("%w: client name is required", domain.ErrRender)
	}

	f := *form
	f.Items = append([]entity.InvoiceItem(nil), form.Items...)
	if f.Template == "" {
		f.Template = entity.TemplateDefault
	}
	totals := invoice.Apply(&f)

	base := entity.DefaultTemplateSettings(f.Template)
	resolved := base
	if settings != nil {
		resolved = settings.MergeOver(base)
	}

	currency := strings.ToUpper(strings.TrimSpace(f.Currency))
	if currency == "" && profile != nil {
		currency = profile.DefaultCurrency
	}
	if currency == "" {
		currency = "USD"
	}
	symbol := invoice.CurrencySymbol(currency, f.CurrencySymbol)

	due, _ := entity.ParseFormDate(f.DueDate)
	days := invoice.DaysUntilDue(due, now)

	doc := &Document{
		Template:       f.Template,
		Settings:       resolved,
		InvoiceNumber:  strings.TrimSpace(f.InvoiceNumber),
		Status:         string(f.Status),
		IssueDate:      displayDate(f.IssueDate),
		DueDate:        displayDate(f.DueDate),
		DaysUntilDue:   days,
		DueCountdown:   invoice.DueCountdownLabel(days),
		Currency:       currency,
		CurrencySymbol: symbol,
		Business:       businessParty(resolved, profile),
		Client: Party{
			Name:     strings.TrimSpace(f.ClientName),
			Initials: invoice.Initials(f.ClientName),
			Company:  f.ClientCompany,
			Address:  f.ClientAddress,
			Phone:    f.ClientPhone,
			Email:    f.ClientEmail,
		},
		Notes:  strings.TrimSpace(f.Notes),
		Terms:  strings.TrimSpace(f.Terms),
		Totals: totals,
	}

	pro := f.IsProfessional()
	for _, it := range f.Items {
		l := Line{
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			UnitPrice:   money(symbol, it.UnitPrice),
			TaxRate:     it.TaxRate.String() + "%",
			Amount:      money(symbol, it.LineTotal),
		}
		if pro && !it.Discount.IsZero() {
			l.Discount = it.Discount.String() + "%"
		}
		doc.Lines = append(doc.Lines, l)
	}

	doc.Subtotal = money(symbol, totals.Subtotal)
	doc.TaxTotal = money(symbol, totals.TaxTotal)
	doc.GrandTotal = money(symbol, totals.GrandTotal)

	if pro {
		doc.Discount = moneyIfNonZero(symbol, totals.EffectiveDiscount)
		doc.Shipping = moneyIfNonZero(symbol, totals.ShippingCost)
		doc.AmountPaid = moneyIfNonZero(symbol, totals.AmountPaid)
		if !totals.AmountPaid.IsZero() {
			doc.BalanceDue = money(symbol, totals.BalanceDue)
		}
		doc.PONumber = strings.TrimSpace(f.PONumber)
		doc.TaxID = strings.TrimSpace(f.TaxID)
		doc.TermsAndConditions = strings.TrimSpace(f.TermsAndConditions)
		if name, addr := strings.TrimSpace(f.ShipToName), strings.TrimSpace(f.ShipToAddress); name != "" || addr != "" {
			doc.ShipTo = &Party{Name: name, Initials: invoice.Initials(name), Address: addr}
		}
	}

	for _, m := range profile.PaymentMethodsByID(f.SelectedPaymentMethodIDs) {
		doc.PaymentMethods = append(doc.PaymentMethods, PaymentLine{
			Label:   m.Label,
			Type:    string(m.Type),
			Summary: m.Summary(),
		})
	}
	return doc, nil
}

// businessParty datos del emisor: personalización de la plantilla, luego perfil.
func businessParty(s entity.TemplateSettings, p *entity.Profile) Party {
	pick := func(a, b string) string {
		if strings.TrimSpace(a) != "" {
			return strings.TrimSpace(a)
		}
		return strings.TrimSpace(b)
	}
	var prof entity.Profile
	if p != nil {
		prof = *p
	}
	name := pick(s.CompanyName, pick(prof.CompanyName, prof.FullName))
	return Party{
		Name:     name,
		Initials: invoice.Initials(name),
		Address:  pick(s.CompanyAddress, prof.CompanyAddress),
		Phone:    pick(s.CompanyPhone, prof.CompanyPhone),
		Email:    pick(s.CompanyEmail, prof.CompanyEmail),
		Website:  pick(s.CompanyWebsite, prof.Website),
		TaxID:    pick(s.CompanyTaxID, prof.TaxID),
		LogoURL:  pick(s.LogoURL, prof.AvatarURL),
	}
}

func moneyIfNonZero(symbol string, v decimal.Decimal) string {
	if v.IsZero() {
		return ""
	}
	return money(symbol, v)
}

// displayDate "Jan 2, 2006"; una fecha ilegible se muestra tal cual.
func displayDate(s string) string {
	t, err := entity.ParseFormDate(s)
	if err != nil {
		return s
	}
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
