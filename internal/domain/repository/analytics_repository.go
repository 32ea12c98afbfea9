package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// StatusTotals resultado crudo agrupado por estado.
type StatusTotals struct {
	Status      entity.InvoiceStatus
	Count       int
	TotalAmount decimal.Decimal
	BalanceDue  decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el tablero.
type AnalyticsRepository interface {
	// TotalsByStatus agrupa cantidad, total facturado y saldo pendiente por estado.
	TotalsByStatus(ctx context.Context, userID string) ([]StatusTotals, error)
	// ClientCount número de clientes del usuario.
	ClientCount(ctx context.Context, userID string) (int, error)
}
