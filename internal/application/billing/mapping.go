package billing

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/invoice"
)

// DefaultCurrency moneda cuando ni el formulario ni el perfil indican una.
const DefaultCurrency = "USD"

// validateForm reglas previas a cualquier escritura.
func validateForm(userID string, f *entity.InvoiceForm) error {
	if strings.TrimSpace(userID) == "" {
		return domain.NewValidationError("user", "user is required")
	}
	if strings.TrimSpace(f.InvoiceNumber) == "" {
		return domain.NewValidationError("invoiceNumber", "invoice number is required")
	}
	if strings.TrimSpace(f.ClientName) == "" {
		return domain.NewValidationError("clientName", "client name is required")
	}
	for i, it := range f.Items {
		if strings.TrimSpace(it.Description) == "" {
			return domain.NewValidationError("items", "item "+strconv.Itoa(i+1)+" needs a description")
		}
	}
	if _, err := entity.ParseFormDate(f.IssueDate); err != nil {
		return domain.NewValidationError("issueDate", "invalid date")
	}
	if _, err := entity.ParseFormDate(f.DueDate); err != nil {
		return domain.NewValidationError("dueDate", "invalid date")
	}
	return nil
}

// headerFromForm construye la cabecera persistible. Las fechas ya fueron validadas.
func headerFromForm(f *entity.InvoiceForm, userID, clientID string) *entity.Invoice {
	issue, _ := entity.ParseFormDate(f.IssueDate)
	due, _ := entity.ParseFormDate(f.DueDate)
	currency := strings.ToUpper(strings.TrimSpace(f.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	return &entity.Invoice{
		UserID:                   userID,
		ClientID:                 clientID,
		InvoiceNumber:            strings.TrimSpace(f.InvoiceNumber),
		IssueDate:                issue,
		DueDate:                  due,
		Template:                 f.Template,
		Currency:                 currency,
		CurrencySymbol:           invoice.CurrencySymbol(currency, f.CurrencySymbol),
		Subtotal:                 f.Subtotal,
		TaxTotal:                 f.TaxTotal,
		DiscountAmount:           f.DiscountAmount,
		ShippingCost:             f.ShippingCost,
		AmountPaid:               f.AmountPaid,
		TotalAmount:              f.GrandTotal,
		BalanceDue:               f.BalanceDue,
		Notes:                    f.Notes,
		Terms:                    f.Terms,
		SelectedPaymentMethodIDs: f.SelectedPaymentMethodIDs,
		TemplateData: entity.TemplateData{
			PONumber:           f.PONumber,
			TaxID:              f.TaxID,
			ShipToName:         f.ShipToName,
			ShipToAddress:      f.ShipToAddress,
			TermsAndConditions: f.TermsAndConditions,
			DiscountIsManual:   f.DiscountIsManual,
		},
	}
}

// linesFromForm una fila por ítem, en el orden del formulario. El descuento solo se guarda en professional.
func linesFromForm(f *entity.InvoiceForm, invoiceID string) []*entity.InvoiceLine {
	lines := make([]*entity.InvoiceLine, 0, len(f.Items))
	for i, it := range f.Items {
		discount := it.Discount
		if !f.IsProfessional() {
			discount = decimal.Zero
		}
		lines = append(lines, &entity.InvoiceLine{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Position:    i,
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    discount,
			TaxRate:     it.TaxRate,
			Amount:      it.LineTotal,
		})
	}
	return lines
}

// FormFromInvoice reconstruye el formulario editable a partir de lo persistido.
// Los totales se recalculan, no se copian de la cabecera.
func FormFromInvoice(inv *entity.Invoice, lines []*entity.InvoiceLine, client *entity.Client) *entity.InvoiceForm {
	f := &entity.InvoiceForm{
		ID:                       inv.ID,
		ClientID:                 inv.ClientID,
		Template:                 inv.Template,
		Status:                   inv.Status,
		InvoiceNumber:            inv.InvoiceNumber,
		IssueDate:                entity.FormatFormDate(inv.IssueDate),
		DueDate:                  entity.FormatFormDate(inv.DueDate),
		Notes:                    inv.Notes,
		Terms:                    inv.Terms,
		DiscountAmount:           inv.DiscountAmount,
		DiscountIsManual:         inv.TemplateData.DiscountIsManual,
		ShippingCost:             inv.ShippingCost,
		AmountPaid:               inv.AmountPaid,
		Currency:                 inv.Currency,
		CurrencySymbol:           inv.CurrencySymbol,
		SelectedPaymentMethodIDs: inv.SelectedPaymentMethodIDs,
		PONumber:                 inv.TemplateData.PONumber,
		TaxID:                    inv.TemplateData.TaxID,
		ShipToName:               inv.TemplateData.ShipToName,
		ShipToAddress:            inv.TemplateData.ShipToAddress,
		TermsAndConditions:       inv.TemplateData.TermsAndConditions,
	}
	if client != nil {
		f.ClientName = client.Name
		f.ClientEmail = client.Email
		f.ClientPhone = client.Phone
		f.ClientAddress = client.Address
		f.ClientCompany = client.CompanyName
	}
	f.Items = make([]entity.InvoiceItem, 0, len(lines))
	for _, l := range lines {
		f.Items = append(f.Items, entity.InvoiceItem{
			ID:          l.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			TaxRate:     l.TaxRate,
		})
	}
	invoice.Apply(f)
	return f
}
