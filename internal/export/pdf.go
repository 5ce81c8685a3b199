package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/poupaenergia/poupa/internal/savings"
)

const (
	pdfFont       = "Arial"
	pdfLineHeight = 6.0
	pdfNameWidth  = 45.0
	pdfStratWidth = 28.0
	pdfFigWidth   = 34.0
)

// WritePDF writes rows to w as a landscape A4 report.
func WritePDF(w io.Writer, rows []Row, tariffs savings.Tariffs, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Savings estimates", true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 14)
	pdf.Cell(0, 8, "Savings estimates")
	pdf.Ln(10)

	pdf.SetFont(pdfFont, "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Comparison rate %.4f EUR/kWh, flat discount %.0f%%, CO2 %.2f kg/kWh, %.0f kWh per panel pair",
		tariffs.ComparisonRate, tariffs.FlatDiscount*100, tariffs.CO2KgPerKWh, tariffs.ProductionPerPanelPair))
	pdf.Ln(8)

	pdf.SetFont(pdfFont, "B", 9)
	pdf.CellFormat(pdfNameWidth, pdfLineHeight, "Name", "1", 0, "C", false, 0, "")
	pdf.CellFormat(pdfStratWidth, pdfLineHeight, "Strategy", "1", 0, "C", false, 0, "")
	for _, c := range figureColumns {
		pdf.CellFormat(pdfFigWidth, pdfLineHeight, c.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 9)
	var failed []Row
	for _, row := range rows {
		pdf.CellFormat(pdfNameWidth, pdfLineHeight, tr(row.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfStratWidth, pdfLineHeight, row.Strategy.String(), "1", 0, "L", false, 0, "")
		for _, c := range figureColumns {
			text := ""
			if v := c.value(row); v.Valid {
				text = savings.FormatDecimal(v.Decimal, c.places)
			}
			pdf.CellFormat(pdfFigWidth, pdfLineHeight, text, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
		if row.Error != "" {
			failed = append(failed, row)
		}
	}

	if len(failed) > 0 {
		pdf.Ln(4)
		pdf.SetFont(pdfFont, "B", 9)
		pdf.Cell(0, 5, "Rejected inputs")
		pdf.Ln(5)
		pdf.SetFont(pdfFont, "", 9)
		for _, row := range failed {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s: %s", row.Name, row.Error)), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
