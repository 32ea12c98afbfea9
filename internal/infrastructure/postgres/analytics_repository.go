package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// TotalsByStatus cantidad, facturado y saldo por estado.
func (r *AnalyticsRepo) TotalsByStatus(ctx context.Context, userID string) ([]repository.StatusTotals, error) {
	const query = `
	SELECT
	    status,
	    COUNT(*)                          AS invoice_count,
	    COALESCE(SUM(total_amount), 0)    AS total_amount,
	    COALESCE(SUM(balance_due), 0)     AS balance_due
	FROM invoices
	WHERE user_id = $1
	GROUP BY status
	ORDER BY status`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("analytics.TotalsByStatus: %w", err)
	}
	defer rows.Close()

	var results []repository.StatusTotals
	for rows.Next() {
		var row repository.StatusTotals
		if err := rows.Scan(&row.Status, &row.Count, &row.TotalAmount, &row.BalanceDue); err != nil {
			return nil, fmt.Errorf("analytics.TotalsByStatus scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ClientCount número de clientes del usuario.
func (r *AnalyticsRepo) ClientCount(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.ClientCount: %w", err)
	}
	return n, nil
}
