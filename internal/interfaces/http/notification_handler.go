package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
	"github.com/jhoicas/invoice-studio-api/internal/application/notifications"
)

// NotificationHandler feed de notificaciones del usuario.
type NotificationHandler struct {
	svc *notifications.Service
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(svc *notifications.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List GET /api/notifications?unread=true&limit=50
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	list, err := h.svc.List(c.Context(), userID, c.QueryBool("unread"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewNotificationResponses(list))
}

// MarkRead POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.svc.MarkRead(c.Context(), userID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	n, err := h.svc.MarkAllRead(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}
