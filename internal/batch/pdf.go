package batch

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/theodore-ai/theodore/internal/model"
)

// WriteRecordPDF renders a one-page summary of record to outPath, for the
// spreadsheet collaborator who wants a shareable artifact rather than raw
// JSON. This is a thin external-facing rendering, not core pipeline logic.
//
// Grounded on the teacher's writeSimplePDF: plain Helvetica body text,
// bold section headings, no layout engine.
func WriteRecordPDF(record *model.CompanyRecord, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.AddPage()
	pdf.CellFormat(0, 10, record.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(2)

	writeField(pdf, "Website", derefString(record.Website))
	writeField(pdf, "Industry", derefString(record.Industry))
	writeField(pdf, "Description", derefString(record.Description))
	writeField(pdf, "Business model", derefString(record.BusinessModelClass))
	writeField(pdf, "Value proposition", derefString(record.ValueProposition))
	writeField(pdf, "Target market", derefString(record.TargetMarket))
	writeField(pdf, "Pricing", derefString(record.PricingMechanism))
	writeListField(pdf, "Products & services", record.ProductsServices)
	writeListField(pdf, "Key services", record.KeyServices)
	writeListField(pdf, "Tech stack", record.TechStack)
	writeListField(pdf, "Competitive advantages", record.CompetitiveAdvantages)
	writeField(pdf, "Location", derefString(record.Location))
	writeField(pdf, "Employee range", derefString(record.EmployeeRange))

	if len(record.Leadership) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, "Leadership", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, l := range record.Leadership {
			pdf.MultiCell(0, 5, fmt.Sprintf("- %s, %s", l.Name, l.Role), "", "L", false)
		}
		pdf.Ln(3)
	}

	return pdf.OutputFileAndClose(outPath)
}

func writeField(pdf *gofpdf.Fpdf, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, label, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, value, "", "L", false)
	pdf.Ln(3)
}

func writeListField(pdf *gofpdf.Fpdf, label string, items []string) {
	if len(items) == 0 {
		return
	}
	writeField(pdf, label, strings.Join(items, ", "))
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
