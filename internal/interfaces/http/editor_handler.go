package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-studio-api/internal/application/billing"
	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
)

// EditorHandler estado inicial del editor de facturas.
type EditorHandler struct {
	editor EditorService
}

// NewEditorHandler construye el handler.
func NewEditorHandler(editor EditorService) *EditorHandler {
	return &EditorHandler{editor: editor}
}

// Open godoc
// @Summary      Estado inicial del editor
// @Description  Prioridad: formulario recibido > factura guardada (?invoice=) > borrador > valores por defecto.
// @Tags         editor
// @Produce      json
// @Param        template  path   string  true   "default | professional"
// @Param        invoice   query  string  false  "número de factura guardada"
// @Success      200  {object}  billing.EditorState
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/editor/{template} [get]
func (h *EditorHandler) Open(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	t, err := templateParam(c)
	if err != nil {
		return writeError(c, err)
	}
	req := billing.EditorRequest{UserID: userID, Template: t, InvoiceNumber: c.Query("invoice")}
	if c.Method() == fiber.MethodPost {
		var in dto.EditorRequest
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		if req.Navigation, err = dto.DecodeInvoiceForm(in.InvoiceData); err != nil {
			return badBody(c)
		}
	}
	state, err := h.editor.Resolve(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(state)
}
