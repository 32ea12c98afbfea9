package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// Orígenes del estado inicial del editor, de mayor a menor prioridad.
const (
	SourceNavigation = "navigation"
	SourceSaved      = "saved"
	SourceDraft      = "draft"
	SourceDefaults   = "defaults"
)

// Orígenes de la personalización de plantilla.
const (
	SettingsPersisted = "persisted"
	SettingsSession   = "session"
	SettingsDefaults  = "defaults"
)

// FormSource un candidato del estado inicial. Load devuelve nil si no aplica.
type FormSource struct {
	Name string
	Load func(ctx context.Context) (*entity.InvoiceForm, error)
}

// ResolveInitialForm recorre las fuentes en orden y devuelve la primera que produce un formulario.
// Un domain.ErrNotFound se trata como "sin valor"; cualquier otro error corta la búsqueda.
func ResolveInitialForm(ctx context.Context, sources ...FormSource) (*entity.InvoiceForm, string, error) {
	for _, src := range sources {
		if src.Load == nil {
			continue
		}
		f, err := src.Load(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, "", err
		}
		if f != nil {
			return f, src.Name, nil
		}
	}
	return nil, "", domain.ErrNotFound
}

// DefaultForm valores fijos de una factura nueva: número INV-<aaaammdd>-<hhmm>, emisión hoy,
// vencimiento a 30 días, moneda del perfil (o USD) y una línea vacía.
func DefaultForm(t entity.Template, profile *entity.Profile, now time.Time) *entity.InvoiceForm {
	currency := DefaultCurrency
	if profile != nil && profile.DefaultCurrency != "" {
		currency = profile.DefaultCurrency
	}
	f := &entity.InvoiceForm{
		Template:      t,
		Status:        entity.StatusDraft,
		InvoiceNumber: "INV-" + now.Format("20060102-1504"),
		IssueDate:     entity.FormatFormDate(now),
		DueDate:       entity.FormatFormDate(now.AddDate(0, 0, 30)),
		Currency:      currency,
		Items: []entity.InvoiceItem{{
			ID:        uuid.New().String(),
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: decimal.Zero,
			TaxRate:   decimal.Zero,
		}},
		SelectedPaymentMethodIDs: []string{},
	}
	invoice.Apply(f)
	return f
}

// EditorState estado con el que arranca el editor de una plantilla.
type EditorState struct {
	Form           *entity.InvoiceForm     `json:"form"`
	Source         string                  `json:"source"`
	Settings       entity.TemplateSettings `json:"settings"`
	SettingsSource string                  `json:"settingsSource"`
}

// EditorRequest entradas del editor: navegación explícita y/o ?invoice=<número>.
type EditorRequest struct {
	UserID        string
	Template      entity.Template
	InvoiceNumber string
	Navigation    *entity.InvoiceForm
}

// EditorService resuelve el estado inicial del editor.
type EditorService struct {
	invoices *InvoiceService
	drafts   DraftStore
	profiles repository.ProfileRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewEditorService construye el servicio.
func NewEditorService(invoices *InvoiceService, drafts DraftStore, profiles repository.ProfileRepository, log zerolog.Logger) *EditorService {
	return &EditorService{invoices: invoices, drafts: drafts, profiles: profiles, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *EditorService) WithClock(now func() time.Time) *EditorService {
	s.now = now
	return s
}

// Resolve navegación > factura guardada (?invoice=) > borrador > valores por defecto.
// La personalización sigue: guardada con la factura > caché de sesión > defaults de la plantilla.
func (s *EditorService) Resolve(ctx context.Context, req EditorRequest) (*EditorState, error) {
	var saved *SavedInvoice

	sources := []FormSource{
		{Name: SourceNavigation, Load: func(context.Context) (*entity.InvoiceForm, error) {
			return req.Navigation, nil
		}},
		{Name: SourceSaved, Load: func(ctx context.Context) (*entity.InvoiceForm, error) {
			if req.InvoiceNumber == "" {
				return nil, nil
			}
			inv, err := s.invoices.Get(ctx, req.UserID, req.InvoiceNumber)
			if err != nil {
				return nil, err
			}
			saved = inv
			return inv.Form, nil
		}},
		{Name: SourceDraft, Load: func(ctx context.Context) (*entity.InvoiceForm, error) {
			var f entity.InvoiceForm
			found, err := s.drafts.Load(ctx, req.UserID, entity.DraftKey(req.Template), &f)
			if err != nil {
				// un borrador corrupto no debe impedir abrir el editor
				s.log.Warn().Err(err).Str("user_id", req.UserID).Msg("borrador ilegible, se ignora")
				return nil, nil
			}
			if !found {
				return nil, nil
			}
			return &f, nil
		}},
		{Name: SourceDefaults, Load: func(ctx context.Context) (*entity.InvoiceForm, error) {
			profile, err := s.profiles.Get(ctx, req.UserID)
			if err != nil {
				s.log.Warn().Err(err).Str("user_id", req.UserID).Msg("perfil no disponible para valores por defecto")
				profile = nil
			}
			return DefaultForm(req.Template, profile, s.now()), nil
		}},
	}

	form, source, err := ResolveInitialForm(ctx, sources...)
	if err != nil {
		return nil, err
	}
	if source != SourceSaved && form.Template == "" {
		form.Template = req.Template
	}
	invoice.Apply(form)

	var persisted *entity.TemplateSettings
	if saved != nil && source == SourceSaved {
		persisted = saved.Header.TemplateSettings
	}
	settings, settingsSource := s.ResolveSettings(ctx, req.UserID, form.Template, persisted)

	return &EditorState{Form: form, Source: source, Settings: settings, SettingsSource: settingsSource}, nil
}

// ResolveSettings personalización efectiva ya combinada con los defaults de la plantilla.
// Una personalización de sesión inválida se descarta.
func (s *EditorService) ResolveSettings(ctx context.Context, userID string, t entity.Template, persisted *entity.TemplateSettings) (entity.TemplateSettings, string) {
	defaults := entity.DefaultTemplateSettings(t)
	if persisted != nil {
		return persisted.MergeOver(defaults), SettingsPersisted
	}
	var session entity.TemplateSettings
	found, err := s.drafts.Load(ctx, userID, entity.SettingsKey(t), &session)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("personalización de sesión ilegible")
		return defaults, SettingsDefaults
	}
	if !found {
		return defaults, SettingsDefaults
	}
	if err := session.Validate(); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("personalización de sesión inválida, se usan los defaults")
		return defaults, SettingsDefaults
	}
	return session.MergeOver(defaults), SettingsSession
}
