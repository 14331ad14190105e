// Package pdf arma los recibos de donación con fpdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"vet-hospital/internal/ports/receipts"

	"github.com/go-pdf/fpdf"
)

// Renderer implementa receipts.Renderer.
type Renderer struct {
	Hospital string
	Currency string
}

var _ receipts.Renderer = Renderer{}

func NewRenderer(hospital string) Renderer {
	return Renderer{Hospital: hospital, Currency: "INR"}
}

func (r Renderer) Render(ctx context.Context, doc receipts.Document) ([]byte, error) {
	if doc.Number == "" {
		return nil, fmt.Errorf("receipt number is required")
	}

	p := fpdf.New("P", "mm", "A5", "")
	tr := p.UnicodeTranslatorFromDescriptor("")
	p.SetTitle("Donation receipt "+doc.Number, true)
	p.AddPage()

	p.SetFont("Helvetica", "B", 16)
	p.CellFormat(0, 10, tr(r.Hospital), "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "", 11)
	p.CellFormat(0, 7, "Donation receipt", "", 1, "C", false, 0, "")
	p.Ln(6)

	line := func(label, value string) {
		if value == "" {
			return
		}
		p.SetFont("Helvetica", "B", 10)
		p.CellFormat(35, 7, label, "", 0, "L", false, 0, "")
		p.SetFont("Helvetica", "", 10)
		p.MultiCell(0, 7, tr(value), "", "L", false)
	}

	line("Receipt no.", doc.Number)
	line("Date", doc.IssuedAt.UTC().Format("2006-01-02"))
	line("Received from", doc.DonorName)
	line("Amount", fmt.Sprintf("%s %.2f", r.Currency, doc.Amount))
	line("Method", doc.Method)
	line("Purpose", doc.Purpose)
	line("Notes", doc.Notes)

	p.Ln(10)
	p.SetFont("Helvetica", "I", 9)
	p.MultiCell(0, 5, "Thank you for supporting the care of animals in our hospital.", "", "C", false)

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
