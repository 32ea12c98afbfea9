package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
	"github.com/jhoicas/invoice-studio-api/internal/application/profile"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// ProfileHandler datos de marca y métodos de pago del usuario.
type ProfileHandler struct {
	svc *profile.Service
}

// NewProfileHandler construye el handler.
func NewProfileHandler(svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Get perfil del usuario (valores por defecto si aún no existe).
// GET /api/profile
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	p, err := h.svc.Get(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewProfileResponse(p))
}

// Update godoc
// @Summary      Actualizar perfil
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProfileRequest  true  "datos de marca"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return invalid(c, err)
	}
	p, err := h.svc.Update(c.Context(), userID, in.ToEntity())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewProfileResponse(p))
}

// AddPaymentMethod agrega un método de pago.
// POST /api/profile/payment-methods
func (h *ProfileHandler) AddPaymentMethod(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.PaymentMethodRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return invalid(c, err)
	}
	m, err := h.svc.AddPaymentMethod(c.Context(), userID, entity.PaymentMethod{
		Type:    entity.PaymentMethodType(in.Type),
		Label:   in.Label,
		Details: in.Details,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// RemovePaymentMethod elimina un método de pago por id.
// DELETE /api/profile/payment-methods/:id
func (h *ProfileHandler) RemovePaymentMethod(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.svc.RemovePaymentMethod(c.Context(), userID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
