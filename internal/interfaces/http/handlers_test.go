package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-studio-api/internal/application/billing"
	"github.com/jhoicas/invoice-studio-api/internal/application/rendering"
	"github.com/jhoicas/invoice-studio-api/internal/domain"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
	apphttp "github.com/jhoicas/invoice-studio-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs de servicios
// ──────────────────────────────────────────────────────────────────────────────

type stubInvoices struct {
	saveErr    error
	saved      *entity.InvoiceForm
	savedOpts  billing.SaveOptions
	getResult  *billing.SavedInvoice
	lastFilter repository.InvoiceFilter
	statusSet  entity.InvoiceStatus
}

func (s *stubInvoices) Save(_ context.Context, _ string, form *entity.InvoiceForm, opts billing.SaveOptions) (*billing.SaveResult, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved, s.savedOpts = form, opts
	return &billing.SaveResult{InvoiceID: "inv-1", ClientID: "cli-1", Status: entity.StatusDraft, Created: true}, nil
}

func (s *stubInvoices) Get(_ context.Context, _, number string) (*billing.SavedInvoice, error) {
	if s.getResult == nil || s.getResult.Form.InvoiceNumber != number {
		return nil, domain.ErrNotFound
	}
	return s.getResult, nil
}

func (s *stubInvoices) List(_ context.Context, _ string, f repository.InvoiceFilter) ([]entity.InvoiceSummary, error) {
	s.lastFilter = f
	return nil, nil
}

func (s *stubInvoices) UpdateStatus(_ context.Context, _, _ string, status entity.InvoiceStatus) error {
	s.statusSet = status
	return nil
}

func (s *stubInvoices) ExportXLSX(context.Context, string, repository.InvoiceFilter) ([]byte, error) {
	return []byte("PK\x03\x04"), nil
}

type stubDelivery struct {
	sendErr  error
	sent     *billing.SendRequest
	settings *entity.TemplateSettings
}

func (s *stubDelivery) Preview(_ context.Context, _ string, form *entity.InvoiceForm, _ *entity.TemplateSettings) (*rendering.Document, error) {
	return &rendering.Document{InvoiceNumber: form.InvoiceNumber, GrandTotal: "$110.00"}, nil
}

func (s *stubDelivery) DownloadPDF(_ context.Context, _ string, form *entity.InvoiceForm, settings *entity.TemplateSettings) (*billing.PDFFile, error) {
	s.settings = settings
	return &billing.PDFFile{Filename: "invoice-" + form.InvoiceNumber + ".pdf", Data: []byte("%PDF-1.4")}, nil
}

func (s *stubDelivery) SendInvoice(_ context.Context, req billing.SendRequest) error {
	s.sent = &req
	return s.sendErr
}

type stubEditor struct{ last billing.EditorRequest }

func (s *stubEditor) Resolve(_ context.Context, req billing.EditorRequest) (*billing.EditorState, error) {
	s.last = req
	src := billing.SourceDefaults
	if req.Navigation != nil {
		src = billing.SourceNavigation
	}
	return &billing.EditorState{Form: req.Navigation, Source: src}, nil
}

type memStore struct{ data map[string][]byte }

func (m *memStore) Save(_ context.Context, userID, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[userID+"|"+key] = b
	return nil
}

func (m *memStore) Load(_ context.Context, userID, key string, v any) (bool, error) {
	b, ok := m.data[userID+"|"+key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, v)
}

func (m *memStore) Clear(_ context.Context, userID, key string) error {
	delete(m.data, userID+"|"+key)
	return nil
}

type fixture struct {
	app      *fiber.App
	invoices *stubInvoices
	delivery *stubDelivery
	editor   *stubEditor
	drafts   *memStore
	auth     string
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		invoices: &stubInvoices{},
		delivery: &stubDelivery{},
		editor:   &stubEditor{},
		drafts:   &memStore{data: map[string][]byte{}},
		auth:     bearer(t, testUserID),
	}
	f.app = fiber.New()
	apphttp.Router(f.app, apphttp.RouterDeps{
		Invoices:  f.invoices,
		Delivery:  f.delivery,
		Editor:    f.editor,
		Drafts:    f.drafts,
		JWTSecret: testJWTSecret,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch v := body.(type) {
		case string:
			r = bytes.NewBufferString(v)
		default:
			b, err := json.Marshal(v)
			require.NoError(t, err)
			r = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", f.auth)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(out)
}

const janeJSON = `{"template":"default","clientName":"Jane Doe","clientEmail":"jane@x.com",
"invoiceNumber":"INV-20260301-0900","issueDate":"2026-03-01","dueDate":"2026-03-31","currency":"USD",
"items":[{"id":"i1","description":"Consulting","quantity":"2","unitPrice":"50","taxRate":"10"}]}`

// ──────────────────────────────────────────────────────────────────────────────
// Invoices
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoices_RequiereToken(t *testing.T) {
	f := newFixture(t)
	f.auth = ""
	resp, _ := f.do(t, http.MethodGet, "/api/invoices", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInvoices_Calculate(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodPost, "/api/invoices/calculate", `{"invoiceData":`+janeJSON+`}`)

	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "110", out["total"])
	assert.Equal(t, "100", out["subtotal"])
}

func TestInvoices_SaveCrea(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodPost, "/api/invoices", `{"invoiceData":`+janeJSON+`,"status":"pending"}`)

	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	require.NotNil(t, f.invoices.saved)
	assert.Equal(t, "INV-20260301-0900", f.invoices.saved.InvoiceNumber)
	assert.True(t, f.invoices.saved.Items[0].Quantity.Equal(decimalOf(t, "2")), "las cantidades en texto se normalizan")
	assert.Equal(t, entity.StatusPending, f.invoices.savedOpts.Status)
	assert.Contains(t, body, `"created":true`)
}

func TestInvoices_SaveErrores(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"json inválido", `{"invoiceData":`, nil, http.StatusBadRequest, "INVALID_BODY"},
		{"sin formulario", `{"status":"draft"}`, nil, http.StatusBadRequest, "VALIDATION"},
		{"guardado en curso", `{"invoiceData":` + janeJSON + `}`, domain.ErrSaveInProgress, http.StatusAccepted, "SAVE_IN_PROGRESS"},
		{"fallo de cliente", `{"invoiceData":` + janeJSON + `}`, domain.ErrClientReconciliation, http.StatusBadGateway, "CLIENT_SAVE_FAILED"},
		{"validación", `{"invoiceData":` + janeJSON + `}`, domain.NewValidationError("clientName", "required"), http.StatusBadRequest, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.invoices.saveErr = tc.err
			resp, body := f.do(t, http.MethodPost, "/api/invoices", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, body)
			assert.Contains(t, body, tc.code)
		})
	}
}

func TestInvoices_ListPasaFiltro(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/invoices?status=overdue&limit=10&offset=20", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, repository.InvoiceFilter{Status: entity.StatusOverdue, Limit: 10, Offset: 20}, f.invoices.lastFilter)
}

func TestInvoices_ListLimiteInvalido(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodGet, "/api/invoices?limit=1000", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/invoices?status=archived", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvoices_Export(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodGet, "/api/invoices/export.xlsx", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoices.xlsx")
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
}

func TestInvoices_GetYPDF(t *testing.T) {
	f := newFixture(t)
	f.invoices.getResult = &billing.SavedInvoice{
		Header: &entity.Invoice{InvoiceNumber: "INV-1"},
		Form:   &entity.InvoiceForm{InvoiceNumber: "INV-1", ClientName: "Jane Doe"},
	}

	resp, body := f.do(t, http.MethodGet, "/api/invoices/INV-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"invoiceData"`)
	assert.Contains(t, body, "Jane Doe")

	resp, body = f.do(t, http.MethodGet, "/api/invoices/INV-1/preview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "$110.00")

	resp, body = f.do(t, http.MethodGet, "/api/invoices/INV-1/pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-INV-1.pdf"`, resp.Header.Get("Content-Disposition"))
	assert.True(t, len(body) > 0)

	resp, _ = f.do(t, http.MethodGet, "/api/invoices/INV-404", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvoices_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodPatch, "/api/invoices/INV-1/status", `{"status":"paid"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, entity.StatusPaid, f.invoices.statusSet)

	resp, body := f.do(t, http.MethodPatch, "/api/invoices/INV-1/status", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "VALIDATION")
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF y correo
// ──────────────────────────────────────────────────────────────────────────────

func TestDelivery_PDFUsaDatosDeUsuario(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodPost, "/api/pdf",
		`{"invoiceData":`+janeJSON+`,"user":{"email":"me@acme.test","fullName":"Ana","companyName":"Acme Studio"}}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="invoice-INV-20260301-0900.pdf"`, resp.Header.Get("Content-Disposition"))
	require.NotNil(t, f.delivery.settings)
	assert.Equal(t, "Acme Studio", f.delivery.settings.CompanyName)
	assert.Equal(t, "me@acme.test", f.delivery.settings.CompanyEmail)
}

func TestDelivery_PDFSinFormulario(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodPost, "/api/pdf", `{"invoiceData":null}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDelivery_SendInvoiceOK(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodPost, "/api/email/send-invoice",
		`{"to":" jane@x.com ","invoiceData":`+janeJSON+`,"userData":{"fullName":"Ana","companyName":"Acme Studio"}}`)

	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"success":true}`, body)
	require.NotNil(t, f.delivery.sent)
	assert.Equal(t, "jane@x.com", f.delivery.sent.To)
	assert.Equal(t, testEmail, f.delivery.sent.UserEmail, "sin userEmail se usa el del token")
	assert.Equal(t, "Acme Studio", f.delivery.sent.BusinessName)
	assert.Equal(t, "Ana", f.delivery.sent.UserName)
}

func TestDelivery_SendInvoiceRemitenteDelToken(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodPost, "/api/email/send-invoice",
		`{"to":"jane@x.com","userEmail":"OWNER@studio.test","invoiceData":`+janeJSON+`}`)

	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	require.NotNil(t, f.delivery.sent)
	assert.Equal(t, testEmail, f.delivery.sent.UserEmail)
}

func TestDelivery_SendInvoiceRechazaRemitenteAjeno(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodPost, "/api/email/send-invoice",
		`{"to":"jane@x.com","userEmail":"ceo@verified.com","invoiceData":`+janeJSON+`}`)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, `"type":"forbidden"`)
	assert.Nil(t, f.delivery.sent, "no se intenta el envío")
}

func TestDelivery_SendInvoiceFallos(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{domain.ErrDomainVerificationRequired, http.StatusUnprocessableEntity, "domain_verification_required"},
		{domain.ErrMailDelivery, http.StatusBadGateway, "delivery"},
		{domain.NewValidationError("to", "bad"), http.StatusBadRequest, "validation"},
		{domain.ErrNotFound, http.StatusNotFound, "invoice_not_saved"},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			f := newFixture(t)
			f.delivery.sendErr = tc.err
			resp, body := f.do(t, http.MethodPost, "/api/email/send-invoice", `{"to":"jane@x.com","invoiceData":`+janeJSON+`}`)

			assert.Equal(t, tc.status, resp.StatusCode)
			var out map[string]any
			require.NoError(t, json.Unmarshal([]byte(body), &out))
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tc.kind, out["type"])
			assert.NotEmpty(t, out["error"])
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Borradores, personalización y editor
// ──────────────────────────────────────────────────────────────────────────────

func TestDrafts_Ciclo(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/api/drafts/professional", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPut, "/api/drafts/professional", janeJSON)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	_, stored := f.drafts.data[testUserID+"|"+entity.DraftKeyProfessional]
	assert.True(t, stored, "el borrador se guarda bajo la clave de la plantilla")

	resp, body := f.do(t, http.MethodGet, "/api/drafts/professional", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "INV-20260301-0900")

	resp, _ = f.do(t, http.MethodDelete, "/api/drafts/professional", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = f.do(t, http.MethodGet, "/api/drafts/professional", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestDrafts_PlantillaDesconocida(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/drafts/fancy", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "VALIDATION")
}

func TestTemplateSettings_Validacion(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodPut, "/api/template-settings/default", `{"primaryColor":"rojo"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPut, "/api/template-settings/default", `{"primaryColor":"#FF0000","fontFamily":"times"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/template-settings/default", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "#FF0000")
}

func TestEditor_GetYPost(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/editor/professional?invoice=INV-7", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, entity.TemplateProfessional, f.editor.last.Template)
	assert.Equal(t, "INV-7", f.editor.last.InvoiceNumber)
	assert.Equal(t, testUserID, f.editor.last.UserID)
	assert.Nil(t, f.editor.last.Navigation)

	resp, body = f.do(t, http.MethodPost, "/api/editor/default", `{"invoiceData":`+janeJSON+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	require.NotNil(t, f.editor.last.Navigation)
	assert.Contains(t, body, `"source":"navigation"`)
}
