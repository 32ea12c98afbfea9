// Package invoice contiene el cálculo de totales de una factura (función pura, sin I/O)
// y los valores derivados que comparten ambas plantillas al renderizar.
package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Adjustments ajustes globales de la plantilla professional.
//
// Política de descuento: con DiscountIsManual=false el descuento efectivo y el campo mostrado
// son Σ descuentos por línea y ManualDiscount se ignora. Con DiscountIsManual=true se conserva
// el valor tecleado y el efectivo es max(ManualDiscount, Σ). Así Apply(Apply(f)) == Apply(f).
type Adjustments struct {
	ManualDiscount   decimal.Decimal
	DiscountIsManual bool
	ShippingCost     decimal.Decimal
	AmountPaid       decimal.Decimal
}

// Totals agregados de la factura, redondeados a 2 decimales.
type Totals struct {
	Subtotal           decimal.Decimal // Σ (q·p − descuento de línea)
	TaxTotal           decimal.Decimal
	TotalItemDiscounts decimal.Decimal
	DiscountAmount     decimal.Decimal // valor del campo "descuento" tras recalcular
	EffectiveDiscount  decimal.Decimal // Σ descuentos de línea, o max(manual, Σ) si es manual
	ShippingCost       decimal.Decimal
	AmountPaid         decimal.Decimal
	GrandTotal         decimal.Decimal
	BalanceDue         decimal.Decimal
}

// LineTotal q·p − q·p·descuento/100. Solo depende de la propia línea.
func LineTotal(item entity.InvoiceItem) decimal.Decimal {
	gross := item.Quantity.Mul(item.UnitPrice)
	return gross.Sub(itemDiscount(item, gross)).Round(2)
}

func itemDiscount(item entity.InvoiceItem, gross decimal.Decimal) decimal.Decimal {
	if item.Discount.IsZero() {
		return decimal.Zero
	}
	return gross.Mul(item.Discount).Div(hundred)
}

// Calculate recalcula los totales a partir de las líneas y los ajustes globales.
func Calculate(items []entity.InvoiceItem, adj Adjustments) Totals {
	var subtotal, tax, itemDiscounts decimal.Decimal
	for _, it := range items {
		gross := it.Quantity.Mul(it.UnitPrice)
		disc := itemDiscount(it, gross)
		net := gross.Sub(disc)

		subtotal = subtotal.Add(net)
		itemDiscounts = itemDiscounts.Add(disc)
		if !it.TaxRate.IsZero() {
			tax = tax.Add(net.Mul(it.TaxRate).Div(hundred))
		}
	}

	effective, shown := itemDiscounts, itemDiscounts
	if adj.DiscountIsManual {
		effective = decimal.Max(adj.ManualDiscount, itemDiscounts)
		shown = adj.ManualDiscount
	}

	grand := subtotal.Add(tax).Sub(effective).Add(adj.ShippingCost).Round(2)
	paid := adj.AmountPaid.Round(2)
	return Totals{
		Subtotal:           subtotal.Round(2),
		TaxTotal:           tax.Round(2),
		TotalItemDiscounts: itemDiscounts.Round(2),
		DiscountAmount:     shown.Round(2),
		EffectiveDiscount:  effective.Round(2),
		ShippingCost:       adj.ShippingCost.Round(2),
		AmountPaid:         paid,
		GrandTotal:         grand,
		BalanceDue:         grand.Sub(paid),
	}
}

// CalculateForTemplate aplica las reglas de la plantilla: default no tiene descuentos
// (ni por línea ni global), envío ni abonos.
func CalculateForTemplate(t entity.Template, items []entity.InvoiceItem, adj Adjustments) Totals {
	if t != entity.TemplateProfessional {
		adj = Adjustments{}
		items = withoutDiscounts(items)
	}
	return Calculate(items, adj)
}

func withoutDiscounts(items []entity.InvoiceItem) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, len(items))
	for i, it := range items {
		it.Discount = decimal.Zero
		out[i] = it
	}
	return out
}

// AdjustmentsFromForm lee los ajustes globales del formulario.
func AdjustmentsFromForm(f *entity.InvoiceForm) Adjustments {
	return Adjustments{
		ManualDiscount:   f.DiscountAmount,
		DiscountIsManual: f.DiscountIsManual,
		ShippingCost:     f.ShippingCost,
		AmountPaid:       f.AmountPaid,
	}
}

// Apply recalcula cada LineTotal y escribe los agregados en el formulario.
// En la plantilla default también limpia el descuento de cada línea.
func Apply(f *entity.InvoiceForm) Totals {
	for i := range f.Items {
		if !f.IsProfessional() {
			f.Items[i].Discount = decimal.Zero
		}
		f.Items[i].LineTotal = LineTotal(f.Items[i])
	}
	t := CalculateForTemplate(f.Template, f.Items, AdjustmentsFromForm(f))

	f.Subtotal = t.Subtotal
	f.TaxTotal = t.TaxTotal
	f.GrandTotal = t.GrandTotal
	f.BalanceDue = t.BalanceDue
	if f.IsProfessional() {
		f.TotalItemDiscounts = t.TotalItemDiscounts
		f.DiscountAmount = t.DiscountAmount
		f.ShippingCost = t.ShippingCost
		f.AmountPaid = t.AmountPaid
	} else {
		f.TotalItemDiscounts = decimal.Zero
		f.DiscountAmount = decimal.Zero
		f.ShippingCost = decimal.Zero
		f.AmountPaid = decimal.Zero
	}
	return t
}
