// Package mail entrega correos por SMTP con gomail.
package mail

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/invoice-studio-api/internal/application/ports"
	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/pkg/config"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPMailer implementa ports.Mailer.
//
// Remitente: si MAIL_FROM está configurado se usa ese buzón y el email del usuario va en Reply-To.
// Si no, se envía desde el email del usuario y su dominio debe estar en MAIL_VERIFIED_DOMAINS;
// de lo contrario se devuelve domain.ErrDomainVerificationRequired.
type SMTPMailer struct {
	from     string
	verified map[string]struct{}
	send     func(...*gomail.Message) error
	log      zerolog.Logger
}

// NewSMTPMailer construye el mailer. Devuelve nil si no hay host configurado.
func NewSMTPMailer(cfg config.MailConfig, log zerolog.Logger) *SMTPMailer {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return newMailer(cfg, d.DialAndSend, log)
}

func newMailer(cfg config.MailConfig, send func(...*gomail.Message) error, log zerolog.Logger) *SMTPMailer {
	verified := make(map[string]struct{}, len(cfg.VerifiedDomains))
	for _, dom := range cfg.VerifiedDomains {
		if dom = strings.ToLower(strings.TrimSpace(dom)); dom != "" {
			verified[dom] = struct{}{}
		}
	}
	return &SMTPMailer{from: strings.TrimSpace(cfg.From), verified: verified, send: send, log: log}
}

// Send arma el mensaje y lo entrega. No reintenta.
func (m *SMTPMailer) Send(ctx context.Context, mail ports.Mail) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMailDelivery, err)
	}
	msg, err := m.buildMessage(mail)
	if err != nil {
		return err
	}
	if err := m.send(msg); err != nil {
		m.log.Error().Err(err).Str("to", mail.To).Msg("smtp: envío fallido")
		return fmt.Errorf("%w: %w", domain.ErrMailDelivery, err)
	}
	m.log.Info().Str("to", mail.To).Str("subject", mail.Subject).Msg("correo enviado")
	return nil
}

func (m *SMTPMailer) buildMessage(mail ports.Mail) (*gomail.Message, error) {
	sender := strings.TrimSpace(mail.SenderEmail)
	msg := gomail.NewMessage()

	switch {
	case m.from != "":
		msg.SetAddressHeader("From", m.from, mail.SenderName)
		if sender != "" {
			msg.SetHeader("Reply-To", sender)
		}
	case sender == "":
		return nil, fmt.Errorf("%w: no sender address", domain.ErrMailDelivery)
	default:
		dom := senderDomain(sender)
		if _, ok := m.verified[dom]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrDomainVerificationRequired, dom)
		}
		msg.SetAddressHeader("From", sender, mail.SenderName)
	}

	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", mail.Subject)
	if mail.TextBody != "" {
		msg.SetBody("text/plain", mail.TextBody)
		if mail.HTMLBody != "" {
			msg.AddAlternative("text/html", mail.HTMLBody)
		}
	} else {
		msg.SetBody("text/html", mail.HTMLBody)
	}

	for _, a := range mail.Attachments {
		data := a.Data
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		msg.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {ct}}),
		)
	}
	return msg, nil
}

func senderDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
