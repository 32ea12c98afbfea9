package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-studio-api/internal/application/billing"
	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// InvoiceHandler maneja guardado, listado y consulta de facturas (protegido).
type InvoiceHandler struct {
	invoices InvoiceService
	delivery DeliveryService
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices InvoiceService, delivery DeliveryService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, delivery: delivery}
}

// Calculate recalcula los totales de un formulario sin persistir.
// POST /api/invoices/calculate
func (h *InvoiceHandler) Calculate(c *fiber.Ctx) error {
	var in dto.CalculateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	form, err := dto.DecodeInvoiceForm(in.InvoiceData)
	if err != nil || form == nil {
		return badBody(c)
	}
	totals := invoice.Apply(form)
	return c.JSON(dto.NewTotalsResponse(form, totals))
}

// Save godoc
// @Summary      Guardar factura (crea o actualiza por número)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveInvoiceRequest  true  "formulario"
// @Success      201   {object}  billing.SaveResult
// @Success      202   {object}  dto.ErrorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Save(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.SaveInvoiceRequest
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
	res, err := h.invoices.Save(c.Context(), userID, form, billing.SaveOptions{
		Status:           entity.InvoiceStatus(in.Status),
		TemplateSettings: in.TemplateSettings,
	})
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"result": res, "invoiceData": form})
}

// List listado paginado, filtrable por ?status=.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var q dto.ListInvoicesQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	q.Defaults()
	if err := validate.Struct(q); err != nil {
		return invalid(c, err)
	}
	rows, err := h.invoices.List(c.Context(), userID, repository.InvoiceFilter{
		Status: entity.InvoiceStatus(q.Status),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.NewInvoiceSummaries(rows),
		"page":  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}

// Export descarga el listado filtrado como XLSX.
// GET /api/invoices/export.xlsx
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	data, err := h.invoices.ExportXLSX(c.Context(), userID, repository.InvoiceFilter{Status: entity.InvoiceStatus(c.Query("status"))})
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoices.xlsx"`)
	return c.Send(data)
}

// Get factura guardada con su formulario reconstruido.
// GET /api/invoices/:number
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	saved, err := h.invoices.Get(c.Context(), userID, c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.InvoiceDetailResponse{
		Form:             saved.Form,
		TemplateSettings: saved.Header.TemplateSettings,
		CreatedAt:        saved.Header.CreatedAt,
		UpdatedAt:        saved.Header.UpdatedAt,
	})
}

// UpdateStatus cambio explícito de estado.
// PATCH /api/invoices/:number/status
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return invalid(c, err)
	}
	if err := h.invoices.UpdateStatus(c.Context(), userID, c.Params("number"), entity.InvoiceStatus(in.Status)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Preview modelo de vista de una factura guardada.
// GET /api/invoices/:number/preview
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	saved, err := h.invoices.Get(c.Context(), userID, c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.delivery.Preview(c.Context(), userID, saved.Form, saved.Header.TemplateSettings)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(doc)
}

// PDF descarga el PDF de una factura guardada.
// GET /api/invoices/:number/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	saved, err := h.invoices.Get(c.Context(), userID, c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	file, err := h.delivery.DownloadPDF(c.Context(), userID, saved.Form, saved.Header.TemplateSettings)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, file)
}

func sendPDF(c *fiber.Ctx, file *billing.PDFFile) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Data)
}
