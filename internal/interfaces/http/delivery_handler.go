package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-studio-api/internal/application/billing"
	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// DeliveryHandler descarga de PDF y envío por correo de un formulario.
type DeliveryHandler struct {
	delivery DeliveryService
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(delivery DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{delivery: delivery}
}

// PDF godoc
// @Summary      Generar PDF de un formulario
// @Tags         delivery
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.PDFRequest  true  "invoiceData, user"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/pdf [post]
func (h *DeliveryHandler) PDF(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.PDFRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	form, err := dto.DecodeInvoiceForm(in.InvoiceData)
	if err != nil {
		return badBody(c)
	}
	if form == nil {
		return writeError(c, domain.NewValidationError("invoiceData", "invoice data is required"))
	}
	file, err := h.delivery.DownloadPDF(c.Context(), userID, form, withUserData(in.TemplateSettings, in.User))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, file)
}

// SendInvoice godoc
// @Summary      Enviar factura por correo con el PDF adjunto
// @Tags         delivery
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendInvoiceRequest  true  "destinatario y formulario"
// @Success      200  {object}  dto.SendInvoiceResponse
// @Failure      400  {object}  dto.SendInvoiceResponse
// @Failure      403  {object}  dto.SendInvoiceResponse
// @Failure      422  {object}  dto.SendInvoiceResponse
// @Failure      502  {object}  dto.SendInvoiceResponse
// @Router       /api/email/send-invoice [post]
func (h *DeliveryHandler) SendInvoice(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.SendInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SendInvoiceResponse{Error: "cuerpo inválido"})
	}
	form, err := dto.DecodeInvoiceForm(in.InvoiceData)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SendInvoiceResponse{Error: "cuerpo inválido"})
	}
	// El remitente sale siempre del token; un userEmail distinto en el cuerpo se rechaza.
	sender := GetUserEmail(c)
	if claimed := strings.TrimSpace(in.UserEmail); claimed != "" && !strings.EqualFold(claimed, sender) {
		return c.Status(fiber.StatusForbidden).JSON(dto.SendInvoiceResponse{
			Error: "userEmail no coincide con la sesión", Type: "forbidden",
		})
	}
	req := billing.SendRequest{
		UserID:          userID,
		To:              strings.TrimSpace(in.To),
		Form:            form,
		Settings:        withUserData(in.TemplateSettings, in.UserData),
		UserEmail:       sender,
		ClientName:      in.ClientName,
		GreetingMessage: in.GreetingMessage,
		BusinessName:    in.BusinessName,
	}
	if in.UserData != nil {
		req.UserName = in.UserData.FullName
		if req.BusinessName == "" {
			req.BusinessName = in.UserData.CompanyName
		}
	}
	if err := h.delivery.SendInvoice(c.Context(), req); err != nil {
		status, kind := sendFailure(err)
		return c.Status(status).JSON(dto.SendInvoiceResponse{Error: err.Error(), Type: kind})
	}
	return c.JSON(dto.SendInvoiceResponse{Success: true})
}

func sendFailure(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "validation"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "invoice_not_saved"
	case errors.Is(err, domain.ErrDomainVerificationRequired):
		return fiber.StatusUnprocessableEntity, "domain_verification_required"
	case errors.Is(err, domain.ErrRender):
		return fiber.StatusUnprocessableEntity, "render"
	case errors.Is(err, domain.ErrMailDelivery):
		return fiber.StatusBadGateway, "delivery"
	}
	return fiber.StatusInternalServerError, "internal"
}

// withUserData completa los datos de empresa vacíos de la personalización con los del usuario.
func withUserData(settings *entity.TemplateSettings, user *dto.UserData) *entity.TemplateSettings {
	if user == nil {
		return settings
	}
	out := entity.TemplateSettings{}
	if settings != nil {
		out = *settings
	}
	if out.CompanyName == "" {
		out.CompanyName = firstOf(user.CompanyName, user.FullName)
	}
	if out.CompanyEmail == "" {
		out.CompanyEmail = user.Email
	}
	return &out
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
