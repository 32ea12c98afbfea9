package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-studio-api/internal/application/analytics"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

type fakeAnalytics struct {
	rows    []repository.StatusTotals
	clients int
	err     error
}

func (f *fakeAnalytics) TotalsByStatus(context.Context, string) ([]repository.StatusTotals, error) {
	return f.rows, f.err
}

func (f *fakeAnalytics) ClientCount(context.Context, string) (int, error) {
	return f.clients, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGetSummary(t *testing.T) {
	repo := &fakeAnalytics{
		clients: 4,
		rows: []repository.StatusTotals{
			{Status: entity.StatusDraft, Count: 2, TotalAmount: dec("500"), BalanceDue: dec("500")},
			{Status: entity.StatusPending, Count: 1, TotalAmount: dec("110"), BalanceDue: dec("110")},
			{Status: entity.StatusOverdue, Count: 1, TotalAmount: dec("200"), BalanceDue: dec("150")},
			{Status: entity.StatusPaid, Count: 3, TotalAmount: dec("900"), BalanceDue: dec("0")},
		},
	}
	uc := analytics.NewDashboardUseCase(repo).
		WithClock(func() time.Time { return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) })

	sum, err := uc.GetSummary(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 7, sum.InvoiceCount)
	assert.Equal(t, 4, sum.ClientCount)
	assert.True(t, sum.TotalBilled.Equal(dec("1210")), "draft no cuenta como facturado")
	assert.True(t, sum.Collected.Equal(dec("900")))
	assert.True(t, sum.Outstanding.Equal(dec("260")))
	assert.True(t, sum.OverdueDue.Equal(dec("150")))
	assert.Equal(t, "March 2026", sum.DateLabel)

	require.Len(t, sum.ByStatus, 5)
	assert.Equal(t, "cancelled", sum.ByStatus[4].Status)
	assert.Zero(t, sum.ByStatus[4].Count)
}

func TestGetSummary_Error(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeAnalytics{err: errors.New("boom")})
	_, err := uc.GetSummary(context.Background(), "u1")
	assert.Error(t, err)
}
