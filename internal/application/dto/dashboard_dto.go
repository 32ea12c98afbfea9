package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
// Agrupa las facturas del usuario por estado más los totales de cobro.
type DashboardSummaryDTO struct {
	InvoiceCount int             `json:"invoice_count"`
	ClientCount  int             `json:"client_count"`
	TotalBilled  decimal.Decimal `json:"total_billed"` // suma de totales, excluye draft y cancelled
	Collected    decimal.Decimal `json:"collected"`    // total de facturas paid
	Outstanding  decimal.Decimal `json:"outstanding"`  // saldo pendiente de pending + overdue
	OverdueDue   decimal.Decimal `json:"overdue_due"`  // saldo pendiente solo de overdue

	ByStatus []StatusSummaryDTO `json:"by_status"`

	DateLabel string `json:"date_label"` // ej: "March 2026"
}

// StatusSummaryDTO una fila del desglose por estado.
type StatusSummaryDTO struct {
	Status      string          `json:"status"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	BalanceDue  decimal.Decimal `json:"balance_due"`
}
