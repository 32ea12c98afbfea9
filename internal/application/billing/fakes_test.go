package billing_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-studio-api/internal/application/ports"
	"github.com/jhoicas/invoice-studio-api/internal/application/rendering"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	"github.com/jhoicas/invoice-studio-api/internal/domain/repository"
)

// ─── base de datos en memoria ─────────────────────────────────────────────────

type memDB struct {
	mu       sync.Mutex
	clients  map[string]*entity.Client
	invoices map[string]*entity.Invoice
	lines    map[string][]*entity.InvoiceLine

	failCreateLines error
	failSearch      error
	blockTx         chan struct{} // si no es nil, RunInvoice espera a que se cierre
	enteredTx       chan struct{}
}

func newMemDB() *memDB {
	return &memDB{
		clients:  make(map[string]*entity.Client),
		invoices: make(map[string]*entity.Invoice),
		lines:    make(map[string][]*entity.InvoiceLine),
	}
}

func (db *memDB) snapshot() (map[string]*entity.Client, map[string]*entity.Invoice, map[string][]*entity.InvoiceLine) {
	c := make(map[string]*entity.Client, len(db.clients))
	for k, v := range db.clients {
		cp := *v
		c[k] = &cp
	}
	i := make(map[string]*entity.Invoice, len(db.invoices))
	for k, v := range db.invoices {
		cp := *v
		i[k] = &cp
	}
	l := make(map[string][]*entity.InvoiceLine, len(db.lines))
	for k, v := range db.lines {
		l[k] = append([]*entity.InvoiceLine(nil), v...)
	}
	return c, i, l
}

// RunInvoice simula la transacción: ante un error restaura el estado previo.
func (db *memDB) RunInvoice(ctx context.Context, fn func(repository.ClientRepository, repository.InvoiceRepository) error) error {
	if db.enteredTx != nil {
		db.enteredTx <- struct{}{}
	}
	if db.blockTx != nil {
		<-db.blockTx
	}
	db.mu.Lock()
	c, i, l := db.snapshot()
	db.mu.Unlock()

	if err := fn(&memClients{db}, &memInvoices{db}); err != nil {
		db.mu.Lock()
		db.clients, db.invoices, db.lines = c, i, l
		db.mu.Unlock()
		return err
	}
	return nil
}

func (db *memDB) invoiceCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.invoices)
}

func (db *memDB) clientCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.clients)
}

func (db *memDB) linesOf(invoiceID string) []*entity.InvoiceLine {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.lines[invoiceID]
}

// ─── clientes ─────────────────────────────────────────────────────────────────

type memClients struct{ db *memDB }

func (r *memClients) SearchByName(_ context.Context, userID, fragment string) ([]*entity.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failSearch != nil {
		return nil, r.db.failSearch
	}
	var out []*entity.Client
	for _, c := range r.db.clients {
		if c.UserID == userID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(fragment)) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memClients) GetByID(_ context.Context, userID, id string) (*entity.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.clients[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memClients) Create(_ context.Context, c *entity.Client) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *c
	r.db.clients[c.ID] = &cp
	return nil
}

func (r *memClients) UpdateContact(_ context.Context, c *entity.Client) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.clients[c.ID]
	if !ok {
		return errors.New("no existe")
	}
	cur.Email, cur.Phone, cur.Address, cur.CompanyName, cur.UpdatedAt = c.Email, c.Phone, c.Address, c.CompanyName, c.UpdatedAt
	return nil
}

func (r *memClients) List(_ context.Context, userID string, _, _ int) ([]*entity.Client, error) {
	return r.SearchByName(context.Background(), userID, "")
}

// ─── facturas ─────────────────────────────────────────────────────────────────

type memInvoices struct{ db *memDB }

func (r *memInvoices) find(userID, number string) *entity.Invoice {
	for _, inv := range r.db.invoices {
		if inv.UserID == userID && inv.InvoiceNumber == number {
			return inv
		}
	}
	return nil
}

func (r *memInvoices) GetByNumber(_ context.Context, userID, number string) (*entity.Invoice, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inv := r.find(userID, number)
	if inv == nil {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.find(inv.UserID, inv.InvoiceNumber) != nil {
		return errors.New("duplicate")
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	cp := *inv
	r.db.invoices[inv.ID] = &cp
	return nil
}

func (r *memInvoices) Update(_ context.Context, inv *entity.Invoice) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.invoices[inv.ID]; !ok {
		return errors.New("no existe")
	}
	cp := *inv
	r.db.invoices[inv.ID] = &cp
	return nil
}

func (r *memInvoices) UpdateStatus(_ context.Context, userID, number string, status entity.InvoiceStatus) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inv := r.find(userID, number)
	if inv == nil {
		return false, nil
	}
	inv.Status = status
	return true, nil
}

func (r *memInvoices) DeleteLines(_ context.Context, invoiceID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.lines, invoiceID)
	return nil
}

func (r *memInvoices) CreateLines(_ context.Context, lines []*entity.InvoiceLine) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failCreateLines != nil {
		return r.db.failCreateLines
	}
	for _, l := range lines {
		r.db.lines[l.InvoiceID] = append(r.db.lines[l.InvoiceID], l)
	}
	return nil
}

func (r *memInvoices) GetLines(_ context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]*entity.InvoiceLine(nil), r.db.lines[invoiceID]...), nil
}

func (r *memInvoices) List(_ context.Context, userID string, f repository.InvoiceFilter) ([]entity.InvoiceSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []entity.InvoiceSummary
	for _, inv := range r.db.invoices {
		if inv.UserID != userID || (f.Status != "" && inv.Status != f.Status) {
			continue
		}
		out = append(out, entity.InvoiceSummary{ID: inv.ID, InvoiceNumber: inv.InvoiceNumber, Status: inv.Status, TotalAmount: inv.TotalAmount})
	}
	return out, nil
}

func (r *memInvoices) MarkOverdue(_ context.Context, asOf time.Time) ([]repository.OverdueInvoice, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []repository.OverdueInvoice
	for _, inv := range r.db.invoices {
		if inv.Status == entity.StatusPending && !inv.DueDate.IsZero() && inv.DueDate.Before(asOf) {
			inv.Status = entity.StatusOverdue
			out = append(out, repository.OverdueInvoice{UserID: inv.UserID, InvoiceNumber: inv.InvoiceNumber, BalanceDue: inv.BalanceDue})
		}
	}
	return out, nil
}

// ─── borradores ───────────────────────────────────────────────────────────────

type memDrafts struct {
	mu      sync.Mutex
	values  map[string]any
	raw     map[string][]byte
	cleared []string
}

func newMemDrafts() *memDrafts {
	return &memDrafts{values: make(map[string]any), raw: make(map[string][]byte)}
}

func (d *memDrafts) put(userID, key string, payload string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.raw[userID+"|"+key] = []byte(payload)
}

func (d *memDrafts) Load(_ context.Context, userID, key string, v any) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.raw[userID+"|"+key]
	if !ok {
		return false, nil
	}
	return true, jsonUnmarshal(p, v)
}

func (d *memDrafts) Clear(_ context.Context, userID, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cleared = append(d.cleared, key)
	delete(d.raw, userID+"|"+key)
	return nil
}

// ─── perfiles, notificaciones, mailer, renderer ───────────────────────────────

type memProfiles struct {
	profiles map[string]*entity.Profile
	err      error
}

func (p *memProfiles) Get(_ context.Context, userID string) (*entity.Profile, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.profiles[userID], nil
}

func (p *memProfiles) Upsert(_ context.Context, pr *entity.Profile) error {
	p.profiles[pr.UserID] = pr
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*entity.Notification
}

func (n *recordingNotifier) Emit(_ context.Context, notif *entity.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notif)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, x := range n.sent {
		out = append(out, x.Type)
	}
	return out
}

type fakeMailer struct {
	sent []ports.Mail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, mail ports.Mail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

type fakeRenderer struct {
	docs []*rendering.Document
}

func (r *fakeRenderer) Render(doc *rendering.Document) ([]byte, error) {
	r.docs = append(r.docs, doc)
	return []byte("%PDF-1.4 " + doc.InvoiceNumber), nil
}
