// Package pdf dibuja la factura en PDF a partir del rendering.Document.
//
// Layout A4 compartido por ambas plantillas:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor (iniciales + nombre)  │  N° Factura + fechas │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FACTURAR A: cliente         │  ENVIAR A (professional)     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant | P.Unit | [Desc%] | IVA | Total  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES (professional: descuento, envío, abonos, saldo)    │
//	│  NOTAS / TÉRMINOS / MÉTODOS DE PAGO                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"golang.org/x/text/encoding/charmap"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/invoice-studio-api/internal/application/rendering"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

var _ rendering.Renderer = (*MarotoRenderer)(nil)

var colorWhite = &props.Color{Red: 255, Green: 255, Blue: 255}

// palette colores de la personalización ya convertidos.
type palette struct {
	primary   *props.Color
	secondary *props.Color
	accent    *props.Color
	text      *props.Color
}

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa rendering.Renderer usando Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer construye el renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoRenderer) Render(doc *rendering.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("pdf: documento vacío")
	}
	doc = withPrintableCurrency(doc)
	s := doc.Settings
	pal := palette{
		primary:   hexColor(s.PrimaryColor, &props.Color{Red: 31, Green: 41, Blue: 55}),
		secondary: hexColor(s.SecondaryColor, &props.Color{Red: 107, Green: 114, Blue: 128}),
		accent:    hexColor(s.AccentColor, &props.Color{Red: 37, Green: 99, Blue: 235}),
		text:      hexColor(s.TextColor, &props.Color{Red: 17, Green: 24, Blue: 39}),
	}
	font := s.FontFamily
	if font == "" {
		font = entity.FontHelvetica
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: font, Size: 9, Color: pal.text}).
		WithTitle("Invoice "+doc.InvoiceNumber, true).
		WithAuthor(doc.Business.Name, true).
		Build()

	m := maroto.New(cfg)
	professional := doc.Template == entity.TemplateProfessional

	if professional {
		m.AddRows(professionalHeader(doc, pal))
	} else {
		m.AddRows(defaultHeader(doc, pal))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: pal.primary, Thickness: 0.5}))
	m.AddRows(partiesRow(doc, pal))
	m.AddRows(line.NewRow(2, props.Line{Color: pal.secondary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(professional, pal))
	m.AddRows(tableRows(doc.Lines, professional)...)

	m.AddRows(line.NewRow(2, props.Line{Color: pal.secondary, Thickness: 0.3}))
	m.AddRows(totalsRows(doc, pal)...)
	m.AddRows(footerRows(doc, pal)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// defaultHeader: emisor (izq) y número + fechas (der), sobre fondo blanco.
func defaultHeader(doc *rendering.Document, pal palette) core.Row {
	left := col.New(7)
	if doc.Settings.Show(entity.SectionCompanyDetails) {
		left.Add(
			text.New(doc.Business.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: pal.primary, Top: 1}),
			text.New(joinNonEmpty("  |  ", doc.Business.Email, doc.Business.Phone), props.Text{Size: 8, Top: 9, Color: pal.secondary}),
			text.New(doc.Business.Address, props.Text{Size: 8, Top: 14, Color: pal.secondary}),
		)
	}
	return row.New(22).Add(left, invoiceMetaCol(doc, pal, pal.primary))
}

// professionalHeader: banda de color con iniciales del emisor.
func professionalHeader(doc *rendering.Document, pal palette) core.Row {
	left := col.New(7)
	if doc.Settings.Show(entity.SectionCompanyDetails) {
		title := doc.Business.Name
		if doc.Settings.Show(entity.SectionLogo) && doc.Business.Initials != "" {
			title = doc.Business.Initials + "  " + title
		}
		left.Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorWhite, Top: 3, Left: 2}),
			text.New(joinNonEmpty("  |  ", doc.Business.Email, doc.Business.Phone, doc.Business.Website), props.Text{Size: 8, Top: 11, Color: colorWhite, Left: 2}),
			text.New(joinNonEmpty("  |  ", doc.Business.Address, taxIDLabel(doc.Business.TaxID)), props.Text{Size: 8, Top: 16, Color: colorWhite, Left: 2}),
		)
	}
	return row.New(26).
		Add(left, invoiceMetaCol(doc, pal, colorWhite)).
		WithStyle(&props.Cell{BackgroundColor: pal.primary})
}

func invoiceMetaCol(doc *rendering.Document, pal palette, c *props.Color) core.Col {
	meta := col.New(5).Add(
		text.New("INVOICE", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: c, Top: 2, Right: 2}),
		text.New(doc.InvoiceNumber, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: c, Top: 7, Right: 2}),
		text.New("Issued: "+doc.IssueDate, props.Text{Size: 8, Align: align.Right, Color: c, Top: 14, Right: 2}),
	)
	if doc.DueDate != "" {
		due := "Due: " + doc.DueDate
		if doc.Settings.Show(entity.SectionDueCountdown) && doc.DueCountdown != "" {
			due += " (" + doc.DueCountdown + ")"
		}
		meta.Add(text.New(due, props.Text{Size: 8, Align: align.Right, Color: c, Top: 18, Right: 2}))
	}
	if doc.PONumber != "" {
		meta.Add(text.New("PO: "+doc.PONumber, props.Text{Size: 8, Align: align.Right, Color: c, Top: 22, Right: 2}))
	}
	return meta
}

// partiesRow: cliente y, en professional, la dirección de envío.
func partiesRow(doc *rendering.Document, pal palette) core.Row {
	bill := col.New(6)
	if doc.Settings.Show(entity.SectionClientDetails) {
		bill.Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: pal.primary, Top: 1}),
			text.New(doc.Client.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(joinNonEmpty("  |  ", doc.Client.Company, doc.Client.Email, doc.Client.Phone), props.Text{Size: 8, Top: 12, Color: pal.secondary}),
			text.New(joinNonEmpty("  |  ", doc.Client.Address, taxIDLabel(doc.TaxID)), props.Text{Size: 8, Top: 16, Color: pal.secondary}),
		)
	}
	ship := col.New(6)
	if doc.ShipTo != nil {
		ship.Add(
			text.New("SHIP TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: pal.primary, Top: 1}),
			text.New(doc.ShipTo.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(doc.ShipTo.Address, props.Text{Size: 8, Top: 12, Color: pal.secondary}),
		)
	}
	return row.New(22).Add(bill, ship)
}

// tableHeaderRow: cabecera de la tabla con fondo de color.
func tableHeaderRow(professional bool, pal palette) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	cols := []core.Col{h("Description", 5, align.Left), h("Qty", 1, align.Center), h("Unit price", 2, align.Right)}
	if professional {
		cols[0] = h("Description", 4, align.Left)
		cols = append(cols, h("Disc.", 1, align.Center))
	}
	cols = append(cols, h("Tax", 1, align.Center), h("Amount", 3, align.Right))
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: pal.accent})
}

// tableRows: una fila por línea.
func tableRows(lines []rendering.Line, professional bool) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		descSize := 5
		if professional {
			descSize = 4
		}
		cols := []core.Col{
			col.New(descSize).Add(text.New(l.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.Quantity, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.UnitPrice, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		}
		if professional {
			cols = append(cols, col.New(1).Add(text.New(percent(l.Discount), props.Text{Size: 8, Align: align.Center, Top: 1})))
		}
		cols = append(cols,
			col.New(1).Add(text.New(percent(l.TaxRate), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(l.Amount, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		)
		out = append(out, row.New(7).Add(cols...))
	}
	return out
}

// totalsRows: bloque de totales alineado a la derecha. Los importes opcionales vacíos no se imprimen.
func totalsRows(doc *rendering.Document, pal palette) []core.Row {
	pair := func(label, value string, strong bool) core.Row {
		st := props.Text{Size: 9, Align: align.Right, Right: 2, Top: 1}
		if strong {
			st.Style = fontstyle.Bold
			st.Size = 10
			st.Color = pal.primary
		}
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, st)),
			col.New(3).Add(text.New(value, st)),
		)
	}
	rows := []core.Row{pair("Subtotal:", doc.Subtotal, false)}
	if doc.Discount != "" {
		rows = append(rows, pair("Discount:", "-"+doc.Discount, false))
	}
	rows = append(rows, pair("Tax:", doc.TaxTotal, false))
	if doc.Shipping != "" {
		rows = append(rows, pair("Shipping:", doc.Shipping, false))
	}
	rows = append(rows, pair("Total:", doc.GrandTotal, true))
	if doc.AmountPaid != "" {
		rows = append(rows, pair("Paid:", "-"+doc.AmountPaid, false))
	}
	if doc.BalanceDue != "" {
		rows = append(rows, pair("Balance due:", doc.BalanceDue, true))
	}
	return rows
}

// footerRows: notas, términos y métodos de pago seleccionados.
func footerRows(doc *rendering.Document, pal palette) []core.Row {
	var rows []core.Row
	block := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		rows = append(rows,
			row.New(4),
			row.New(5).Add(col.New(12).Add(text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: pal.primary}))),
			row.New(10).Add(col.New(12).Add(text.New(body, props.Text{Size: 8, Color: pal.text}))),
		)
	}
	if doc.Settings.Show(entity.SectionNotes) {
		block("NOTES", doc.Notes)
	}
	if doc.Settings.Show(entity.SectionTerms) {
		block("TERMS", doc.Terms)
		block("TERMS AND CONDITIONS", doc.TermsAndConditions)
	}
	if doc.Settings.Show(entity.SectionPaymentMethods) && len(doc.PaymentMethods) > 0 {
		rows = append(rows, row.New(4),
			row.New(5).Add(col.New(12).Add(text.New("PAYMENT METHODS", props.Text{Style: fontstyle.Bold, Size: 8, Color: pal.primary}))))
		for _, p := range doc.PaymentMethods {
			rows = append(rows, row.New(5).Add(
				col.New(3).Add(text.New(p.Label, props.Text{Style: fontstyle.Bold, Size: 8})),
				col.New(9).Add(text.New(p.Summary, props.Text{Size: 8, Color: pal.secondary})),
			))
		}
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// hexColor convierte "#RRGGBB" o "#RGB"; ante un valor inválido devuelve fallback.
func hexColor(s string, fallback *props.Color) *props.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return &props.Color{Red: int(v >> 16 & 0xff), Green: int(v >> 8 & 0xff), Blue: int(v & 0xff)}
}

// percent las tasas ya llegan con "%"; una tasa vacía se imprime como guion.
func percent(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func taxIDLabel(id string) string {
	if id == "" {
		return ""
	}
	return "Tax ID: " + id
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// withPrintableCurrency cambia el símbolo por el código ISO cuando las fuentes estándar del PDF
// (cp1252) no pueden dibujarlo: "₹1,234.50" se imprime "INR 1,234.50". doc no se modifica.
func withPrintableCurrency(doc *rendering.Document) *rendering.Document {
	sym := doc.CurrencySymbol
	if sym == "" || doc.Currency == "" {
		return doc
	}
	if _, err := charmap.Windows1252.NewEncoder().String(sym); err == nil {
		return doc
	}
	code := doc.Currency + " "
	swap := func(v string) string { return strings.Replace(v, sym, code, 1) }

	cp := *doc
	cp.CurrencySymbol = code
	cp.Lines = make([]rendering.Line, len(doc.Lines))
	for i, l := range doc.Lines {
		l.UnitPrice = swap(l.UnitPrice)
		l.Amount = swap(l.Amount)
		cp.Lines[i] = l
	}
	cp.Subtotal = swap(doc.Subtotal)
	cp.TaxTotal = swap(doc.TaxTotal)
	cp.Discount = swap(doc.Discount)
	cp.Shipping = swap(doc.Shipping)
	cp.AmountPaid = swap(doc.AmountPaid)
	cp.BalanceDue = swap(doc.BalanceDue)
	cp.GrandTotal = swap(doc.GrandTotal)
	return &cp
}
