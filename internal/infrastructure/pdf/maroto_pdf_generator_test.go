package pdf_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-studio-api/internal/application/rendering"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/infrastructure/pdf"
)

func sampleForm(t entity.Template) *entity.InvoiceForm {
	return &entity.InvoiceForm{
		Template:      t,
		ClientName:    "Jane Doe",
		InvoiceNumber: "INV-1",
		IssueDate:     "2026-03-01",
		DueDate:       "2026-03-31",
		Currency:      "USD",
		Notes:         "Thanks!",
		ShippingCost:  decimal.NewFromInt(15),
		ShipToName:    "Warehouse",
		Items: []entity.InvoiceItem{
			{Description: "Consulting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50), Discount: decimal.NewFromInt(10), TaxRate: decimal.NewFromInt(10)},
		},
	}
}

func TestRender_AmbasPlantillas(t *testing.T) {
	r := pdf.NewMarotoRenderer()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, tpl := range []entity.Template{entity.TemplateDefault, entity.TemplateProfessional} {
		t.Run(string(tpl), func(t *testing.T) {
			doc, err := rendering.BuildDocument(sampleForm(tpl), &entity.TemplateSettings{FontFamily: entity.FontTimes}, nil, now)
			require.NoError(t, err)

			out, err := r.Render(doc)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
		})
	}
}

func TestRender_Nil(t *testing.T) {
	_, err := pdf.NewMarotoRenderer().Render(nil)
	assert.Error(t, err)
}

func TestHexColor(t *testing.T) {
	fb := &props.Color{Red: 1}
	assert.Equal(t, &props.Color{Red: 0x1F, Green: 0x29, Blue: 0x37}, pdf.HexColor("#1F2937", fb))
	assert.Equal(t, &props.Color{Red: 0xAA, Green: 0xBB, Blue: 0xCC}, pdf.HexColor("#abc", fb))
	assert.Same(t, fb, pdf.HexColor("red", fb))
}

func TestRender_SimboloFueraDeCp1252UsaCodigo(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, code := range []string{"INR", "NGN", "KRW", "PHP", "AED"} {
		t.Run(code, func(t *testing.T) {
			form := sampleForm(entity.TemplateProfessional)
			form.Currency = code
			doc, err := rendering.BuildDocument(form, nil, nil, now)
			require.NoError(t, err)

			safe := pdf.WithPrintableCurrency(doc)
			assert.Equal(t, code+" ", safe.CurrencySymbol)
			assert.True(t, strings.HasPrefix(safe.GrandTotal, code+" "), safe.GrandTotal)
			assert.True(t, strings.HasPrefix(safe.Lines[0].UnitPrice, code+" "), safe.Lines[0].UnitPrice)
			assert.True(t, strings.HasPrefix(safe.Shipping, code+" "), safe.Shipping)
			assert.NotEqual(t, doc.GrandTotal, safe.GrandTotal, "el documento original no se toca")

			out, err := pdf.NewMarotoRenderer().Render(doc)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
		})
	}
}

func TestRender_SimboloCp1252SeConserva(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, code := range []string{"USD", "EUR"} {
		form := sampleForm(entity.TemplateDefault)
		form.Currency = code
		doc, err := rendering.BuildDocument(form, nil, nil, now)
		require.NoError(t, err)
		assert.Same(t, doc, pdf.WithPrintableCurrency(doc), code)
	}
}
