package entity

import "time"

// Tipos de notificación.
const (
	NotificationInvoiceSent       = "invoice_sent"
	NotificationInvoiceDownloaded = "invoice_downloaded"
	NotificationInvoiceSaved      = "invoice_saved"
	NotificationInvoiceOverdue    = "invoice_overdue"
)

// Notification entrada del feed de un usuario.
type Notification struct {
	ID            string
	UserID        string
	Type          string
	Title         string
	Message       string
	InvoiceNumber string
	Read          bool
	CreatedAt     time.Time
}
