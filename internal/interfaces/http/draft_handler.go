package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// DraftHandler autoguardado del formulario y de la personalización sin guardar, por plantilla.
type DraftHandler struct {
	store DraftStore
}

// NewDraftHandler construye el handler.
func NewDraftHandler(store DraftStore) *DraftHandler {
	return &DraftHandler{store: store}
}

func templateParam(c *fiber.Ctx) (entity.Template, error) {
	t, err := entity.ParseTemplate(c.Params("template"))
	if err != nil {
		return "", domain.NewValidationError("template", err.Error())
	}
	return t, nil
}

// GetDraft borrador de la plantilla; 204 si no hay.
// GET /api/drafts/:template
func (h *DraftHandler) GetDraft(c *fiber.Ctx) error {
	return h.load(c, entity.DraftKey)
}

// SaveDraft registra el formulario; la escritura se agrupa con debounce.
// PUT /api/drafts/:template
func (h *DraftHandler) SaveDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	t, err := templateParam(c)
	if err != nil {
		return writeError(c, err)
	}
	form, err := dto.DecodeInvoiceForm(c.Body())
	if err != nil || form == nil {
		return badBody(c)
	}
	if err := h.store.Save(c.Context(), userID, entity.DraftKey(t), form); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// ClearDraft descarta el borrador.
// DELETE /api/drafts/:template
func (h *DraftHandler) ClearDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	t, err := templateParam(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.store.Clear(c.Context(), userID, entity.DraftKey(t)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSettings personalización de sesión de la plantilla; 204 si no hay.
// GET /api/template-settings/:template
func (h *DraftHandler) GetSettings(c *fiber.Ctx) error {
	return h.load(c, entity.SettingsKey)
}

// SaveSettings valida y guarda la personalización de sesión.
// PUT /api/template-settings/:template
func (h *DraftHandler) SaveSettings(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	t, err := templateParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var in entity.TemplateSettings
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := in.Validate(); err != nil {
		return invalid(c, err)
	}
	if err := h.store.Save(c.Context(), userID, entity.SettingsKey(t), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func (h *DraftHandler) load(c *fiber.Ctx, key func(entity.Template) string) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	t, err := templateParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var raw json.RawMessage
	found, err := h.store.Load(c.Context(), userID, key(t), &raw)
	if err != nil {
		return writeError(c, err)
	}
	if !found {
		return c.SendStatus(fiber.StatusNoContent)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}
