// Package analytics contiene el resumen de cobro del tablero.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// statusOrder orden fijo de las filas del desglose.
var statusOrder = []entity.InvoiceStatus{
	entity.StatusDraft,
	entity.StatusPending,
	entity.StatusOverdue,
	entity.StatusPaid,
	entity.StatusCancelled,
}

// DashboardUseCase genera el resumen de facturación del usuario.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Dos llamadas en paralelo:
//  1. TotalsByStatus → desglose y agregados
//  2. ClientCount    → número de clientes
func (uc *DashboardUseCase) GetSummary(ctx context.Context, userID string) (*dto.DashboardSummaryDTO, error) {
	type totalsResult struct {
		rows []repository.StatusTotals
		err  error
	}
	type countResult struct {
		n   int
		err error
	}

	totalsCh := make(chan totalsResult, 1)
	countCh := make(chan countResult, 1)

	go func() {
		rows, err := uc.analyticsRepo.TotalsByStatus(ctx, userID)
		totalsCh <- totalsResult{rows, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.ClientCount(ctx, userID)
		countCh <- countResult{n, err}
	}()

	totals := <-totalsCh
	clients := <-countCh

	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales por estado: %w", totals.err)
	}
	if clients.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", clients.err)
	}

	byStatus := make(map[entity.InvoiceStatus]repository.StatusTotals, len(totals.rows))
	for _, r := range totals.rows {
		byStatus[r.Status] = r
	}

	out := &dto.DashboardSummaryDTO{
		ClientCount: clients.n,
		TotalBilled: decimal.Zero,
		Collected:   decimal.Zero,
		Outstanding: decimal.Zero,
		OverdueDue:  decimal.Zero,
		ByStatus:    make([]dto.StatusSummaryDTO, 0, len(statusOrder)),
		DateLabel:   uc.now().Format("January 2006"),
	}
	for _, st := range statusOrder {
		r, ok := byStatus[st]
		if !ok {
			r = repository.StatusTotals{Status: st, TotalAmount: decimal.Zero, BalanceDue: decimal.Zero}
		}
		out.InvoiceCount += r.Count
		switch st {
		case entity.StatusPaid:
			out.TotalBilled = out.TotalBilled.Add(r.TotalAmount)
			out.Collected = out.Collected.Add(r.TotalAmount)
		case entity.StatusPending:
			out.TotalBilled = out.TotalBilled.Add(r.TotalAmount)
			out.Outstanding = out.Outstanding.Add(r.BalanceDue)
		case entity.StatusOverdue:
			out.TotalBilled = out.TotalBilled.Add(r.TotalAmount)
			out.Outstanding = out.Outstanding.Add(r.BalanceDue)
			out.OverdueDue = r.BalanceDue
		}
		out.ByStatus = append(out.ByStatus, dto.StatusSummaryDTO{
			Status:      string(st),
			Count:       r.Count,
			TotalAmount: r.TotalAmount.Round(2),
			BalanceDue:  r.BalanceDue.Round(2),
		})
	}
	out.TotalBilled = out.TotalBilled.Round(2)
	out.Collected = out.Collected.Round(2)
	out.Outstanding = out.Outstanding.Round(2)
	out.OverdueDue = out.OverdueDue.Round(2)
	return out, nil
}
