package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// OverdueSweeper marca como overdue las facturas pending vencidas y avisa a su dueño.
// Corre fuera del flujo de guardado, que nunca avanza el estado por sí solo.
type OverdueSweeper struct {
	invoices repository.InvoiceRepository
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewOverdueSweeper construye el barrido.
func NewOverdueSweeper(invoices repository.InvoiceRepository, notifier Notifier, log zerolog.Logger) *OverdueSweeper {
	return &OverdueSweeper{invoices: invoices, notifier: notifier, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *OverdueSweeper) WithClock(now func() time.Time) *OverdueSweeper {
	s.now = now
	return s
}

// Run ejecuta un barrido y devuelve cuántas facturas cambiaron.
func (s *OverdueSweeper) Run(ctx context.Context) (int, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	marked, err := s.invoices.MarkOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("overdue sweep: %w", err)
	}
	for _, o := range marked {
		if s.notifier == nil {
			break
		}
		s.notifier.Emit(ctx, &entity.Notification{
			UserID:        o.UserID,
			Type:          entity.NotificationInvoiceOverdue,
			Title:         "Invoice overdue",
			Message:       fmt.Sprintf("Invoice %s for %s is overdue (balance %s).", o.InvoiceNumber, o.ClientName, o.BalanceDue.StringFixed(2)),
			InvoiceNumber: o.InvoiceNumber,
		})
	}
	if len(marked) > 0 {
		s.log.Info().Int("count", len(marked)).Msg("facturas marcadas como vencidas")
	}
	return len(marked), nil
}
