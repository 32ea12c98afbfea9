package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/invoice-studio-api/internal/application/analytics"
)

// DashboardHandler maneja el resumen de cobro del usuario.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los totales por estado y los importes facturado, cobrado y pendiente.
// GET /api/dashboard
//
// Respuesta: DashboardSummaryDTO. Draft y cancelled no cuentan como facturado.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	summary, err := h.uc.GetSummary(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(summary)
}
