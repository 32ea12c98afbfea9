package billing_test

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

func jsonUnmarshal(p []byte, v any) error { return json.Unmarshal(p, v) }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func janeForm() *entity.InvoiceForm {
	return &entity.InvoiceForm{
		Template:      entity.TemplateDefault,
		ClientName:    "Jane Doe",
		ClientEmail:   "jane@x.com",
		InvoiceNumber: "INV-20260301-0900",
		IssueDate:     "2026-03-01",
		DueDate:       "2026-03-31",
		Currency:      "USD",
		Items: []entity.InvoiceItem{
			{ID: "i1", Description: "Consulting", Quantity: d("2"), UnitPrice: d("50"), TaxRate: d("10")},
		},
	}
}
