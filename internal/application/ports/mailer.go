package ports

import "context"

// Attachment archivo adjunto de un correo.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Mail mensaje saliente. SenderEmail es la cuenta del usuario que envía la factura;
// el adaptador decide si se usa como From o como Reply-To.
type Mail struct {
	To          string
	SenderEmail string
	SenderName  string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Mailer puerto de salida para enviar correos.
// Devuelve domain.ErrDomainVerificationRequired si el dominio del remitente no está autorizado.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}
