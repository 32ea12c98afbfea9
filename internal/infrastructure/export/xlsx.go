// Package export serializa listados de facturas a XLSX con excelize.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/invoice-studio-api/internal/application/billing"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

var _ billing.InvoiceExporter = (*XLSXExporter)(nil)

// SheetName hoja única del libro exportado.
const SheetName = "Invoices"

var headers = []string{
	"Invoice #", "Client", "Issue date", "Due date", "Status", "Template", "Currency", "Total", "Balance due",
}

// XLSXExporter implementa billing.InvoiceExporter.
type XLSXExporter struct{}

// NewXLSXExporter construye el exportador.
func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

// ExportInvoices una fila por factura, con cabecera en negrita e importes numéricos.
func (e *XLSXExporter) ExportInvoices(rows []entity.InvoiceSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, r := range rows {
		rowNum := i + 2
		total, _ := r.TotalAmount.Float64()
		balance, _ := r.BalanceDue.Float64()
		values := []any{
			r.InvoiceNumber,
			r.ClientName,
			entity.FormatFormDate(r.IssueDate),
			entity.FormatFormDate(r.DueDate),
			string(r.Status),
			string(r.Template),
			r.Currency,
			total,
			balance,
		}
		start, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", rowNum, err)
		}
	}
	if len(rows) > 0 {
		from, _ := excelize.CoordinatesToCellName(8, 2)
		to, _ := excelize.CoordinatesToCellName(9, len(rows)+1)
		if err := f.SetCellStyle(SheetName, from, to, money); err != nil {
			return nil, fmt.Errorf("apply money style: %w", err)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "B", 24); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
