package billing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jhoicas/invoice-studio-api/internal/application/ports"
	"github.com/jhoicas/invoice-studio-api/internal/application/rendering"
	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// StatusMarker transición best-effort draft → pending tras un envío.
type StatusMarker interface {
	MarkPending(ctx context.Context, userID, number string) error
}

// PDFFile documento generado listo para descargar o adjuntar.
type PDFFile struct {
	Filename string
	Data     []byte
}

// SendRequest datos del envío por correo.
type SendRequest struct {
	UserID          string
	To              string
	Form            *entity.InvoiceForm
	Settings        *entity.TemplateSettings
	UserEmail       string
	UserName        string
	ClientName      string
	GreetingMessage string
	BusinessName    string
}

// DeliveryService genera el PDF y lo entrega por descarga o correo.
type DeliveryService struct {
	renderer rendering.Renderer
	mailer   ports.Mailer
	profiles repository.ProfileRepository
	status   StatusMarker
	notifier Notifier
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

// NewDeliveryService construye el servicio. mailer puede ser nil si no hay SMTP configurado.
func NewDeliveryService(
	renderer rendering.Renderer,
	mailer ports.Mailer,
	profiles repository.ProfileRepository,
	status StatusMarker,
	notifier Notifier,
	log zerolog.Logger,
) *DeliveryService {
	return &DeliveryService{
		renderer: renderer,
		mailer:   mailer,
		profiles: profiles,
		status:   status,
		notifier: notifier,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (s *DeliveryService) WithClock(now func() time.Time) *DeliveryService {
	s.now = now
	return s
}

// Preview modelo de vista de la factura, el mismo que alimenta el PDF.
func (s *DeliveryService) Preview(ctx context.Context, userID string, form *entity.InvoiceForm, settings *entity.TemplateSettings) (*rendering.Document, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rendering.BuildDocument(form, settings, profile, s.now())
}

// RenderPDF genera el PDF sin efectos secundarios.
func (s *DeliveryService) RenderPDF(ctx context.Context, userID string, form *entity.InvoiceForm, settings *entity.TemplateSettings) (*PDFFile, error) {
	doc, err := s.Preview(ctx, userID, form, settings)
	if err != nil {
		return nil, err
	}
	return s.render(doc)
}

func (s *DeliveryService) render(doc *rendering.Document) (*PDFFile, error) {
	data, err := s.renderer.Render(doc)
	if err != nil {
		s.log.Error().Err(err).Str("invoice_number", doc.InvoiceNumber).Msg("render pdf")
		return nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
	}
	return &PDFFile{Filename: doc.Filename(), Data: data}, nil
}

// DownloadPDF genera el PDF y registra la descarga en el feed.
func (s *DeliveryService) DownloadPDF(ctx context.Context, userID string, form *entity.InvoiceForm, settings *entity.TemplateSettings) (*PDFFile, error) {
	file, err := s.RenderPDF(ctx, userID, form, settings)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, userID, entity.NotificationInvoiceDownloaded,
		"Invoice downloaded", "Invoice "+form.InvoiceNumber+" was downloaded as PDF.", form.InvoiceNumber)
	return file, nil
}

// SendInvoice envía la factura en PDF por correo. Tras un envío correcto intenta pasarla
// de draft a pending (un fallo ahí solo se loguea) y registra la notificación.
func (s *DeliveryService) SendInvoice(ctx context.Context, req SendRequest) error {
	if s.mailer == nil {
		return fmt.Errorf("%w: email delivery is not configured", domain.ErrMailDelivery)
	}
	to := strings.TrimSpace(req.To)
	if err := s.validate.Var(to, "required,email"); err != nil {
		return domain.NewValidationError("to", "a valid recipient email is required")
	}
	if req.Form == nil {
		return domain.NewValidationError("invoiceData", "invoice data is required")
	}

	doc, err := s.Preview(ctx, req.UserID, req.Form, req.Settings)
	if err != nil {
		return err
	}
	file, err := s.render(doc)
	if err != nil {
		return err
	}

	clientName := firstNonEmpty(req.ClientName, req.Form.ClientName)
	business := firstNonEmpty(req.BusinessName, req.UserName, req.UserEmail)
	html, text, err := invoiceEmailBody(emailData{
		ClientName:    clientName,
		Greeting:      req.GreetingMessage,
		BusinessName:  business,
		InvoiceNumber: doc.InvoiceNumber,
		Total:         doc.GrandTotal,
		Currency:      doc.Currency,
		DueDate:       doc.DueDate,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRender, err)
	}

	err = s.mailer.Send(ctx, ports.Mail{
		To:          to,
		SenderEmail: req.UserEmail,
		SenderName:  business,
		Subject:     fmt.Sprintf("Invoice %s from %s", doc.InvoiceNumber, business),
		HTMLBody:    html,
		TextBody:    text,
		Attachments: []ports.Attachment{{Filename: file.Filename, ContentType: "application/pdf", Data: file.Data}},
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", req.UserID).Str("invoice_number", req.Form.InvoiceNumber).Msg("enviar factura")
		if errors.Is(err, domain.ErrDomainVerificationRequired) || errors.Is(err, domain.ErrMailDelivery) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrMailDelivery, err)
	}

	if s.status != nil {
		if err := s.status.MarkPending(ctx, req.UserID, doc.InvoiceNumber); err != nil {
			s.log.Warn().Err(err).Str("invoice_number", doc.InvoiceNumber).Msg("no se pudo marcar como pending tras el envío")
		}
	}
	s.emit(ctx, req.UserID, entity.NotificationInvoiceSent,
		"Invoice sent", "Invoice "+doc.InvoiceNumber+" was sent to "+to+".", doc.InvoiceNumber)
	return nil
}

func (s *DeliveryService) profile(ctx context.Context, userID string) (*entity.Profile, error) {
	if s.profiles == nil || userID == "" {
		return nil, nil
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("obtener perfil: %w", err)
	}
	return p, nil
}

func (s *DeliveryService) emit(ctx context.Context, userID, kind, title, msg, number string) {
	if s.notifier == nil || userID == "" {
		return
	}
	s.notifier.Emit(ctx, &entity.Notification{UserID: userID, Type: kind, Title: title, Message: msg, InvoiceNumber: number})
}

type emailData struct {
	ClientName    string
	Greeting      string
	BusinessName  string
	InvoiceNumber string
	Total         string
	Currency      string
	DueDate       string
}

var emailHTML = template.Must(template.New("invoice-email").Parse(`<p>Hi {{.ClientName}},</p>
{{if .Greeting}}<p>{{.Greeting}}</p>{{end}}
<p>Please find attached invoice <strong>{{.InvoiceNumber}}</strong> for <strong>{{.Total}}</strong> ({{.Currency}}){{if .DueDate}}, due on {{.DueDate}}{{end}}.</p>
<p>Thank you,<br>{{.BusinessName}}</p>`))

// invoiceEmailBody cuerpo HTML (escapado) y versión en texto plano.
func invoiceEmailBody(d emailData) (string, string, error) {
	var buf bytes.Buffer
	if err := emailHTML.Execute(&buf, d); err != nil {
		return "", "", err
	}
	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", d.ClientName)
	if d.Greeting != "" {
		text.WriteString(d.Greeting + "\n\n")
	}
	fmt.Fprintf(&text, "Please find attached invoice %s for %s (%s)", d.InvoiceNumber, d.Total, d.Currency)
	if d.DueDate != "" {
		fmt.Fprintf(&text, ", due on %s", d.DueDate)
	}
	fmt.Fprintf(&text, ".\n\nThank you,\n%s\n", d.BusinessName)
	return buf.String(), text.String(), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
