package dto_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/invoice"
)

func TestDecodeInvoiceForm_ImportesFormateados(t *testing.T) {
	body := []byte(`{
		"template": "professional",
		"clientName": "Acme Corp",
		"invoiceNumber": "INV-1",
		"shippingCost": "1,234.50",
		"amountPaid": 10,
		"discountAmount": "",
		"items": [
			{"description": "Design", "quantity": "2", "unitPrice": "1,000", "discount": "abc", "taxRate": 10}
		]
	}`)

	f, err := dto.DecodeInvoiceForm(body)
	require.NoError(t, err)
	assert.Equal(t, entity.TemplateProfessional, f.Template)
	assert.True(t, f.ShippingCost.Equal(decimal.RequireFromString("1234.5")))
	assert.True(t, f.AmountPaid.Equal(decimal.NewFromInt(10)))
	assert.True(t, f.DiscountAmount.IsZero())
	require.Len(t, f.Items, 1)
	assert.True(t, f.Items[0].UnitPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, f.Items[0].Discount.IsZero(), "texto no numérico es 0")
	assert.True(t, f.Items[0].TaxRate.Equal(decimal.NewFromInt(10)))
}

func TestDecodeInvoiceForm_Vacio(t *testing.T) {
	f, err := dto.DecodeInvoiceForm(nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = dto.DecodeInvoiceForm([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestNewTotalsResponse(t *testing.T) {
	f := &entity.InvoiceForm{
		Template: entity.TemplateDefault,
		Items: []entity.InvoiceItem{
			{Description: "a", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50), TaxRate: decimal.NewFromInt(10)},
		},
	}
	res := dto.NewTotalsResponse(f, invoice.Apply(f))
	assert.True(t, res.Total.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, []string{"100.00"}, res.LineTotals)
}
