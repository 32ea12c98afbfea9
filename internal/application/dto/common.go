package dto

// ListInvoicesQuery filtros y paginación de GET /api/invoices.
type ListInvoicesQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=draft pending paid overdue cancelled"`
	Limit  int    `query:"limit" validate:"min=1,max=100"`
	Offset int    `query:"offset" validate:"min=0"`
}

// Defaults aplica el tamaño de página por defecto.
func (q *ListInvoicesQuery) Defaults() {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
