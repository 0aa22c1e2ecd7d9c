package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/smartcart/backend/internal/domain"
)

// Column widths in millimetres for the item table (A4 portrait, 10mm margins)
var columnWidths = []float64{90, 20, 35, 45}

// PDFRenderer renders a cart report as a single PDF document
type PDFRenderer struct{}

// NewPDFRenderer creates a PDF renderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// ContentType returns the MIME type of the rendered report.
func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// Render writes the report to w.
func (r *PDFRenderer) Render(w io.Writer, rep domain.Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "SmartCart shopping report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+rep.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header := []string{"Product", "Qty", "Unit price", "Line total"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(columnWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, e := range rep.Entries {
		name := e.Name
		if e.HasMeasure() {
			name = fmt.Sprintf("%s (%s %s)", name, e.MeasureValue.String(), e.MeasureUnit)
		}
		pdf.CellFormat(columnWidths[0], 7, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[1], 7, strconv.Itoa(e.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[2], 7, tr(formatMoney(e.Price, rep.Currency)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[3], 7, tr(formatMoney(e.LineTotal(), rep.Currency)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	if len(rep.Entries) == 0 {
		pdf.CellFormat(0, 7, "The cart is empty.", "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Items: %d", rep.Totals.ItemCount), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Total: "+formatMoney(rep.Totals.TotalCost, rep.Currency)), "", 1, "L", false, 0, "")

	if rep.Budget.Budget != nil {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr("Budget: "+formatMoney(*rep.Budget.Budget, rep.Currency)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr("Remaining: "+formatMoney(*rep.Budget.Remaining, rep.Currency)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Used: "+rep.Budget.UsagePercent.StringFixed(0)+"%", "", 1, "L", false, 0, "")
		if rep.Budget.OverBudget {
			pdf.SetTextColor(200, 0, 0)
			pdf.CellFormat(0, 6, "Over budget", "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
	}

	if len(rep.Missing) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Still missing from your list", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, item := range rep.Missing {
			pdf.CellFormat(0, 6, tr("- "+item.Name), "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func formatMoney(d decimal.Decimal, currency string) string {
	s := d.StringFixed(2)
	if currency == "" {
		return s
	}
	return s + " " + currency
}
