package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Line struct {
	Description string
	Quantity    int64
	UnitPrice   float64
	TotalPrice  float64
}

type Receipt struct {
	TransactionNumber string
	InvoiceNumber     string
	PaymentURL        string
	CustomerName      string
	CustomerEmail     string
	Company           string
	Currency          string
	Total             float64
	Status            string
	IssuedAt          time.Time
	Lines             []Line
}

func (r Receipt) Filename() string {
	if r.InvoiceNumber != "" {
		return fmt.Sprintf("mechinweb-%s.pdf", r.InvoiceNumber)
	}
	return fmt.Sprintf("mechinweb-%s.pdf", r.TransactionNumber)
}

// Generate renders the receipt as an A4 PDF.
func Generate(r Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Mechinweb receipt "+r.InvoiceNumber, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Mechinweb")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	header := [][2]string{
		{"Invoice Number", r.InvoiceNumber},
		{"Transaction", r.TransactionNumber},
		{"Date", r.IssuedAt.Format("02 January 2006")},
		{"Bill To", r.CustomerName},
		{"Email", r.CustomerEmail},
		{"Company", r.Company},
		{"Status", r.Status},
	}
	for _, row := range header {
		if row[1] == "" {
			continue
		}
		pdf.CellFormat(40, 7, row[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(95, 8, "Service", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, line := range r.Lines {
		pdf.CellFormat(95, 8, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, formatAmount(r.Currency, line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, formatAmount(r.Currency, line.TotalPrice), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, formatAmount(r.Currency, r.Total), "1", 1, "R", false, 0, "")

	if r.PaymentURL != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, "Pay online: "+r.PaymentURL, "", 1, "L", false, 0, r.PaymentURL)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error rendering receipt: %w", err)
	}

	return buf.Bytes(), nil
}

func formatAmount(currency string, amount float64) string {
	return fmt.Sprintf("%s %.2f", currency, amount)
}
