package dto

import (
	"time"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

// NotificationResponse entrada del feed.
type NotificationResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	InvoiceNumber string    `json:"invoiceNumber,omitempty"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewNotificationResponses convierte la lista.
func NewNotificationResponses(list []*entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, NotificationResponse{
			ID:            n.ID,
			Type:          n.Type,
			Title:         n.Title,
			Message:       n.Message,
			InvoiceNumber: n.InvoiceNumber,
			Read:          n.Read,
			CreatedAt:     n.CreatedAt,
		})
	}
	return out
}
